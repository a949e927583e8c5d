package app

import (
	"context"
	"sort"
	"time"

	"roit-learning-service/internal/domain"
)

// ResultRepository stores finished test results.
type ResultRepository interface {
	ResultSaver
	History(ctx context.Context, userID string) ([]domain.ResultRecord, error)
	AllResults(ctx context.Context) ([]domain.ResultRecord, error)
}

// ResultService answers history and leaderboard queries.
type ResultService struct {
	results  ResultRepository
	profiles ProfileRepository
	now      func() time.Time
}

func NewResultService(results ResultRepository, profiles ProfileRepository) *ResultService {
	return &ResultService{results: results, profiles: profiles, now: time.Now}
}

// History lists the user's saved results, newest first.
func (s *ResultService) History(ctx context.Context, user domain.User) ([]domain.ResultRecord, error) {
	records, err := s.results.History(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Leaderboard ranks every user with at least one saved result.
func (s *ResultService) Leaderboard(ctx context.Context, user domain.User) (domain.Leaderboard, error) {
	records, err := s.results.AllResults(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	byID := make(map[string]domain.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	lb := domain.Leaderboard{
		Entries:   BuildLeaderboard(records, byID),
		UpdatedAt: s.now(),
	}
	for _, entry := range lb.Entries {
		if entry.UserID == user.ID {
			lb.CurrentRank = entry.Rank
			break
		}
	}
	return lb, nil
}

// BuildLeaderboard averages each user's percentage across tests. Ties go to
// the user with more tests, then by name. Results without a profile are skipped.
func BuildLeaderboard(records []domain.ResultRecord, profiles map[string]domain.Profile) []domain.LeaderboardEntry {
	agg := make(map[string]*domain.LeaderboardEntry)
	for _, r := range records {
		profile, ok := profiles[r.UserID]
		if !ok {
			continue
		}
		entry, ok := agg[r.UserID]
		if !ok {
			entry = &domain.LeaderboardEntry{
				UserID:          r.UserID,
				FullName:        profile.FullName,
				ProfilePhotoURL: profile.ProfilePhotoURL,
				Pincode:         profile.Pincode,
			}
			agg[r.UserID] = entry
		}
		entry.TotalScore += r.Percentage()
		entry.TestsTaken++
	}

	entries := make([]domain.LeaderboardEntry, 0, len(agg))
	for _, entry := range agg {
		entry.AverageScore = entry.TotalScore / float64(entry.TestsTaken)
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AverageScore != entries[j].AverageScore {
			return entries[i].AverageScore > entries[j].AverageScore
		}
		if entries[i].TestsTaken != entries[j].TestsTaken {
			return entries[i].TestsTaken > entries[j].TestsTaken
		}
		if entries[i].FullName != entries[j].FullName {
			return entries[i].FullName < entries[j].FullName
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
