package services

import (
	"context"
	"sync"

	"codeclub/clubhouse/internal/models/dtos"
	"codeclub/clubhouse/internal/providers"
)

// MembersService holds the member directory shown on the dashboard.
type MembersService struct {
	provider *providers.ClubAPIProvider

	mu      sync.Mutex
	members []dtos.Member
}

func NewMembersService(provider *providers.ClubAPIProvider) *MembersService {
	return &MembersService{provider: provider}
}

// Load replaces the local directory with the backend's member list.
func (s *MembersService) Load(ctx context.Context) error {
	members, err := s.provider.GetUsers(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.members = members
	s.mu.Unlock()
	return nil
}

// Members returns a snapshot of the directory.
func (s *MembersService) Members() []dtos.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dtos.Member, len(s.members))
	copy(out, s.members)
	return out
}

// Count returns the directory size.
func (s *MembersService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

// Find returns the directory entry for a member ID.
func (s *MembersService) Find(memberID string) (*dtos.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.members {
		if s.members[i].ID == memberID {
			m := s.members[i]
			return &m, true
		}
	}
	return nil, false
}
