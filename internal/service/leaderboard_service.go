package service

import (
	"context"
	"log"
	"math"
	"sort"

	"spin2win/internal/cache"
	"spin2win/internal/model"
	"spin2win/internal/repository"
)

const (
	defaultLeaderboardLimit = 20
	maxLeaderboardLimit     = 100
)

// LeaderboardService derives the ranked view from the response ledger on
// demand. Pages are cached briefly in Redis; any submission bumps the cache
// version so stale pages become unreachable.
type LeaderboardService struct {
	responses repository.ResponseRepo
	pages     cache.LeaderboardCache
}

// NewLeaderboardService creates a new leaderboard service. The cache may be
// nil; every request then recomputes from the ledger.
func NewLeaderboardService(responses repository.ResponseRepo, pages cache.LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{responses: responses, pages: pages}
}

// Compute returns one page of the leaderboard. Ranking is total score
// descending, then accuracy descending, then response count descending, with
// participant id as the final deterministic tie-break.
func (s *LeaderboardService) Compute(ctx context.Context, limit, page int) (*model.Leaderboard, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	if page <= 0 {
		page = 1
	}

	if s.pages != nil {
		cached, err := s.pages.GetPage(ctx, limit, page)
		if err != nil {
			log.Printf("Warning: leaderboard cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	rows, err := s.responses.LeaderboardRows(ctx)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Accuracy = accuracy(rows[i].CorrectResponses, rows[i].TotalResponses)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		if a.TotalResponses != b.TotalResponses {
			return a.TotalResponses > b.TotalResponses
		}
		return a.ParticipantID < b.ParticipantID
	})

	total := int64(len(rows))
	offset := (page - 1) * limit
	entries := []model.LeaderboardEntry{}
	if offset < len(rows) {
		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		entries = rows[offset:end]
	}
	for i := range entries {
		entries[i].Rank = offset + i + 1
	}

	lb := &model.Leaderboard{
		Entries: entries,
		Pagination: model.Pagination{
			Current: page,
			Pages:   model.PageCount(total, limit),
			Total:   total,
		},
	}

	if s.pages != nil {
		if err := s.pages.SetPage(ctx, limit, page, lb); err != nil {
			log.Printf("Warning: leaderboard cache write failed: %v", err)
		}
	}
	return lb, nil
}

// accuracy is the correct share as a percentage rounded to two decimals.
func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*10000) / 100
}
