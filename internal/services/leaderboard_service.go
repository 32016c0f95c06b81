package services

import (
	"context"
	"sort"
	"sync"

	"codeclub/clubhouse/internal/models/dtos"
	"codeclub/clubhouse/internal/providers"
)

// RankedMember pairs a member with their 1-based leaderboard rank.
type RankedMember struct {
	Rank   int
	Member dtos.Member
}

// LeaderboardService ranks members by points.
type LeaderboardService struct {
	provider *providers.ClubAPIProvider

	mu      sync.Mutex
	members []dtos.Member
}

func NewLeaderboardService(provider *providers.ClubAPIProvider) *LeaderboardService {
	return &LeaderboardService{provider: provider}
}

// Load fetches the member list from the leaderboard endpoint.
func (s *LeaderboardService) Load(ctx context.Context) error {
	members, err := s.provider.GetLeaderboard(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.members = members
	s.mu.Unlock()
	return nil
}

// Ranked returns the loaded members ranked.
func (s *LeaderboardService) Ranked() []RankedMember {
	s.mu.Lock()
	members := make([]dtos.Member, len(s.members))
	copy(members, s.members)
	s.mu.Unlock()
	return Rank(members)
}

// Top returns the first n ranked members.
func (s *LeaderboardService) Top(n int) []RankedMember {
	ranked := s.Ranked()
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Rank sorts members by points descending and assigns 1-based ranks.
// Equal points break ties by member ID ascending, so ranking the same
// input twice always yields the same order.
func Rank(members []dtos.Member) []RankedMember {
	sorted := make([]dtos.Member, len(members))
	copy(sorted, members)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].ID < sorted[j].ID
	})

	ranked := make([]RankedMember, len(sorted))
	for i, m := range sorted {
		ranked[i] = RankedMember{Rank: i + 1, Member: m}
	}
	return ranked
}
