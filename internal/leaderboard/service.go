package leaderboard

import (
	"time"

	"github.com/typemaster/backend/internal/models"
	"github.com/typemaster/backend/internal/scoring"
)

type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

// GetLeaderboard computes the ranked view for the requested window.
func (s *Service) GetLeaderboard(window models.LeaderboardWindow, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var since time.Time
	includeAverage := false
	if window == models.WindowLast7Days {
		since = s.now().UTC().AddDate(0, 0, -7)
		includeAverage = true
	}

	rows, err := s.store.ResultRows(since)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Level = scoring.LevelForXP(rows[i].XP)
	}

	entries := Rank(rows, includeAverage)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return entries, nil
}
