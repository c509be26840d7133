// Package leaderboard derives ranked views from finalized results.
// Entries are computed per query; nothing here is stored.
package leaderboard

import (
	"math"
	"sort"

	"github.com/typemaster/backend/internal/models"
)

// userBest is the per-user aggregate the ordering rule works on.
type userBest struct {
	entry    models.LeaderboardEntry
	bestAt   int64 // unix nanos of the earliest result achieving the best WPM
	totalWPM int
	count    int
}

// Rank folds result rows into one entry per user and orders them into a
// total order: best WPM descending, ties broken by higher cumulative
// XP, then by the earlier-achieved best result, then by user id. Ranks
// are 1-based and strictly sequential even when WPM values tie.
//
// includeAverage additionally reports each user's mean WPM over the
// given rows (used by the trailing-7-day window).
func Rank(rows []models.ResultRow, includeAverage bool) []models.LeaderboardEntry {
	byUser := make(map[int64]*userBest)
	for _, row := range rows {
		b, ok := byUser[row.UserID]
		if !ok {
			b = &userBest{
				entry: models.LeaderboardEntry{
					UserID:   row.UserID,
					Username: row.Username,
					Level:    row.Level,
					XP:       row.XP,
					BestWPM:  row.WPM,
					Accuracy: row.Accuracy,
				},
				bestAt: row.AchievedAt.UnixNano(),
			}
			byUser[row.UserID] = b
		} else if row.WPM > b.entry.BestWPM ||
			(row.WPM == b.entry.BestWPM && row.AchievedAt.UnixNano() < b.bestAt) {
			b.entry.BestWPM = row.WPM
			b.entry.Accuracy = row.Accuracy
			b.bestAt = row.AchievedAt.UnixNano()
		}
		b.totalWPM += row.WPM
		b.count++
	}

	ordered := make([]*userBest, 0, len(byUser))
	for _, b := range byUser {
		ordered = append(ordered, b)
	}

	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.entry.BestWPM != b.entry.BestWPM {
			return a.entry.BestWPM > b.entry.BestWPM
		}
		if a.entry.XP != b.entry.XP {
			return a.entry.XP > b.entry.XP
		}
		if a.bestAt != b.bestAt {
			return a.bestAt < b.bestAt
		}
		return a.entry.UserID < b.entry.UserID
	})

	entries := make([]models.LeaderboardEntry, 0, len(ordered))
	for i, b := range ordered {
		e := b.entry
		e.Rank = i + 1
		if includeAverage && b.count > 0 {
			e.AverageWPM = math.Round(float64(b.totalWPM)/float64(b.count)*100) / 100
		}
		entries = append(entries, e)
	}
	return entries
}
