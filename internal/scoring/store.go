package scoring

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/typemaster/backend/internal/models"
)

var ErrTestNotFound = errors.New("test not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Users ───────────────────────────────────────────────

func (s *Store) GetUser(userID int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(
		`SELECT id, email, username, xp, streak_days, last_practice_date, is_admin, created_at, updated_at
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&u.ID, &u.Email, &u.Username, &u.XP, &u.StreakDays, &u.LastActive, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Level = LevelForXP(u.XP)
	return &u, nil
}

// AddXP increments the user's cumulative XP and returns the new total.
// XP only ever moves up; there is no corresponding subtraction anywhere.
func (s *Store) AddXP(userID int64, amount int) (int64, error) {
	var newXP int64
	err := s.db.QueryRow(
		`UPDATE users SET xp = xp + $2, updated_at = NOW() WHERE id = $1 RETURNING xp`,
		userID, amount,
	).Scan(&newXP)
	if err != nil {
		return 0, fmt.Errorf("add xp: %w", err)
	}
	return newXP, nil
}

func (s *Store) UpdateStreak(userID int64, streak int, day time.Time) error {
	_, err := s.db.Exec(
		`UPDATE users SET streak_days = $2, last_practice_date = $3, updated_at = NOW() WHERE id = $1`,
		userID, streak, day,
	)
	return err
}

// ── Tests ───────────────────────────────────────────────

func (s *Store) GetTest(testID int64) (*models.TypingTest, error) {
	var t models.TypingTest
	err := s.db.QueryRow(
		`SELECT id, test_number, title, content, duration, target_wpm, difficulty, created_at
		 FROM typing_tests WHERE id = $1`,
		testID,
	).Scan(&t.ID, &t.TestNumber, &t.Title, &t.Content, &t.Duration, &t.TargetWPM, &t.Difficulty, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	return &t, nil
}

// ── Results ─────────────────────────────────────────────

// InsertPracticeResult writes one immutable practice result. A
// duplicate submission_id returns sql.ErrNoRows so the caller can take
// the replay path instead of double-awarding XP.
func (s *Store) InsertPracticeResult(r *models.PracticeResult) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO practice_sessions
		    (user_id, submission_id, mode, duration, typed_text, original_text, wpm, accuracy, errors, xp_gained)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (submission_id) DO NOTHING
		 RETURNING id`,
		r.UserID, r.SubmissionID, r.Mode, r.Duration, r.TypedText, r.ReferenceTxt,
		r.WPM, r.Accuracy, r.Errors, r.XPGained,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, sql.ErrNoRows
	}
	if err != nil {
		return 0, fmt.Errorf("insert practice result: %w", err)
	}
	return id, nil
}

func (s *Store) FindPracticeBySubmission(submissionID string) (*models.PracticeResult, error) {
	var r models.PracticeResult
	err := s.db.QueryRow(
		`SELECT id, user_id, submission_id, mode, duration, typed_text, original_text,
		        wpm, accuracy, errors, xp_gained, created_at
		 FROM practice_sessions WHERE submission_id = $1`,
		submissionID,
	).Scan(&r.ID, &r.UserID, &r.SubmissionID, &r.Mode, &r.Duration, &r.TypedText, &r.ReferenceTxt,
		&r.WPM, &r.Accuracy, &r.Errors, &r.XPGained, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find practice result: %w", err)
	}
	return &r, nil
}

func (s *Store) InsertTestResult(r *models.TestResult) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO test_results
		    (user_id, test_id, submission_id, duration, typed_text, wpm, accuracy, errors, passed, xp_gained)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (submission_id) DO NOTHING
		 RETURNING id`,
		r.UserID, r.TestID, r.SubmissionID, r.Duration, r.TypedText,
		r.WPM, r.Accuracy, r.Errors, r.Passed, r.XPGained,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, sql.ErrNoRows
	}
	if err != nil {
		return 0, fmt.Errorf("insert test result: %w", err)
	}
	return id, nil
}

func (s *Store) FindTestBySubmission(submissionID string) (*models.TestResult, error) {
	var r models.TestResult
	err := s.db.QueryRow(
		`SELECT id, user_id, test_id, submission_id, duration, typed_text,
		        wpm, accuracy, errors, passed, xp_gained, created_at
		 FROM test_results WHERE submission_id = $1`,
		submissionID,
	).Scan(&r.ID, &r.UserID, &r.TestID, &r.SubmissionID, &r.Duration, &r.TypedText,
		&r.WPM, &r.Accuracy, &r.Errors, &r.Passed, &r.XPGained, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find test result: %w", err)
	}
	return &r, nil
}

// ── History & Stats ─────────────────────────────────────

func (s *Store) PracticeHistory(userID int64, limit int) ([]models.PracticeResult, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, submission_id, mode, duration, typed_text, original_text,
		        wpm, accuracy, errors, xp_gained, created_at
		 FROM practice_sessions WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("practice history: %w", err)
	}
	defer rows.Close()

	var results []models.PracticeResult
	for rows.Next() {
		var r models.PracticeResult
		if err := rows.Scan(&r.ID, &r.UserID, &r.SubmissionID, &r.Mode, &r.Duration, &r.TypedText,
			&r.ReferenceTxt, &r.WPM, &r.Accuracy, &r.Errors, &r.XPGained, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan practice result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *Store) TestHistory(userID int64, limit int) ([]models.TestResult, error) {
	rows, err := s.db.Query(
		`SELECT r.id, r.user_id, r.test_id, t.title, r.submission_id, r.duration, r.typed_text,
		        r.wpm, r.accuracy, r.errors, r.passed, r.xp_gained, r.created_at
		 FROM test_results r
		 JOIN typing_tests t ON t.id = r.test_id
		 WHERE r.user_id = $1
		 ORDER BY r.created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("test history: %w", err)
	}
	defer rows.Close()

	var results []models.TestResult
	for rows.Next() {
		var r models.TestResult
		if err := rows.Scan(&r.ID, &r.UserID, &r.TestID, &r.TestTitle, &r.SubmissionID, &r.Duration,
			&r.TypedText, &r.WPM, &r.Accuracy, &r.Errors, &r.Passed, &r.XPGained, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan test result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// PracticeStats aggregates over both practice sessions and graded
// tests; total practice time counts practice sessions only.
func (s *Store) PracticeStats(userID int64) (*models.PracticeStatsResponse, error) {
	var (
		pCount, pBest, pTime int
		pWPM, pAcc           float64
	)
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(wpm), 0), COALESCE(SUM(accuracy), 0),
		        COALESCE(MAX(wpm), 0), COALESCE(SUM(duration), 0)
		 FROM practice_sessions WHERE user_id = $1`,
		userID,
	).Scan(&pCount, &pWPM, &pAcc, &pBest, &pTime)
	if err != nil {
		return nil, fmt.Errorf("practice stats: %w", err)
	}

	var (
		tCount, tBest int
		tWPM, tAcc    float64
	)
	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(wpm), 0), COALESCE(SUM(accuracy), 0), COALESCE(MAX(wpm), 0)
		 FROM test_results WHERE user_id = $1`,
		userID,
	).Scan(&tCount, &tWPM, &tAcc, &tBest)
	if err != nil {
		return nil, fmt.Errorf("test stats: %w", err)
	}

	total := pCount + tCount
	resp := &models.PracticeStatsResponse{
		TotalTests:        total,
		TotalPracticeTime: pTime,
	}
	if total > 0 {
		resp.AverageWPM = round2((pWPM + tWPM) / float64(total))
		resp.AverageAccuracy = round2((pAcc + tAcc) / float64(total))
	}
	resp.BestWPM = pBest
	if tBest > resp.BestWPM {
		resp.BestWPM = tBest
	}
	return resp, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
