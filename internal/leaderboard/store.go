package leaderboard

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/typemaster/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// resultRowsQuery pulls finalized results from both the practice and
// graded-test tables along with the owning user's identity and XP.
// Level is derived from XP by the service, not read from storage.
const resultRowsQuery = `
	SELECT r.user_id, u.username, u.xp, r.wpm, r.accuracy, r.created_at
	FROM (
	    SELECT user_id, wpm, accuracy, created_at FROM practice_sessions
	    UNION ALL
	    SELECT user_id, wpm, accuracy, created_at FROM test_results
	) r
	JOIN users u ON u.id = r.user_id
	WHERE r.created_at >= $1`

// ResultRows returns every finalized result created at or after since.
// Pass a zero time for the all-time window.
func (s *Store) ResultRows(since time.Time) ([]models.ResultRow, error) {
	rows, err := s.db.Query(resultRowsQuery, since)
	if err != nil {
		return nil, fmt.Errorf("leaderboard rows: %w", err)
	}
	defer rows.Close()

	var out []models.ResultRow
	for rows.Next() {
		var r models.ResultRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.XP, &r.WPM, &r.Accuracy, &r.AchievedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
