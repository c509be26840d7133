package content

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/typemaster/backend/internal/models"
)

var ErrTestNotFound = errors.New("test not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ContentForMode returns the newest practice text for mode, falling back
// to the words text when the mode has none.
func (s *Store) ContentForMode(mode string) (string, error) {
	body, err := s.latestBody(mode)
	if err == nil {
		return body, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	return s.latestBody(models.ModeWords)
}

func (s *Store) latestBody(mode string) (string, error) {
	var body string
	err := s.db.QueryRow(
		`SELECT body FROM practice_contents WHERE mode = $1 ORDER BY created_at DESC LIMIT 1`,
		mode,
	).Scan(&body)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("content for %s: %w", mode, err)
	}
	return body, err
}

func (s *Store) ListTests() ([]models.TypingTest, error) {
	rows, err := s.db.Query(
		`SELECT id, test_number, title, content, duration, target_wpm, difficulty, created_at
		 FROM typing_tests ORDER BY test_number ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	defer rows.Close()

	tests := []models.TypingTest{}
	for rows.Next() {
		var t models.TypingTest
		if err := rows.Scan(&t.ID, &t.TestNumber, &t.Title, &t.Content, &t.Duration, &t.TargetWPM, &t.Difficulty, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

func (s *Store) GetTest(id int64) (*models.TypingTest, error) {
	var t models.TypingTest
	err := s.db.QueryRow(
		`SELECT id, test_number, title, content, duration, target_wpm, difficulty, created_at
		 FROM typing_tests WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.TestNumber, &t.Title, &t.Content, &t.Duration, &t.TargetWPM, &t.Difficulty, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get test %d: %w", id, err)
	}
	return &t, nil
}

func (s *Store) CreateTest(req models.TestUpsertRequest) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO typing_tests (test_number, title, content, duration, target_wpm, difficulty)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		req.TestNumber, req.Title, req.Content, req.Duration, req.TargetWPM, req.Difficulty,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create test: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateTest(id int64, req models.TestUpsertRequest) error {
	res, err := s.db.Exec(
		`UPDATE typing_tests
		 SET test_number = $1, title = $2, content = $3, duration = $4, target_wpm = $5, difficulty = $6
		 WHERE id = $7`,
		req.TestNumber, req.Title, req.Content, req.Duration, req.TargetWPM, req.Difficulty, id,
	)
	if err != nil {
		return fmt.Errorf("update test %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTestNotFound
	}
	return nil
}

func (s *Store) DeleteTest(id int64) error {
	res, err := s.db.Exec(`DELETE FROM typing_tests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete test %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTestNotFound
	}
	return nil
}

// IsAdmin reports whether the user has the admin flag set.
func (s *Store) IsAdmin(userID int64) (bool, error) {
	var isAdmin bool
	err := s.db.QueryRow(`SELECT is_admin FROM users WHERE id = $1`, userID).Scan(&isAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check admin %d: %w", userID, err)
	}
	return isAdmin, nil
}

func (s *Store) ListUsers(skip, limit int) ([]models.User, error) {
	rows, err := s.db.Query(
		`SELECT id, email, username, xp, streak_days, last_practice_date, is_admin, created_at, updated_at
		 FROM users ORDER BY created_at ASC OFFSET $1 LIMIT $2`,
		skip, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.XP, &u.StreakDays, &u.LastActive, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) AdminStats() (*models.AdminStatsResponse, error) {
	var stats models.AdminStatsResponse
	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM typing_tests),
			(SELECT COUNT(*) FROM practice_sessions),
			(SELECT COUNT(*) FROM test_results)`,
	).Scan(&stats.TotalUsers, &stats.TotalTests, &stats.TotalPracticeSessions, &stats.TotalTestResults)
	if err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return &stats, nil
}
