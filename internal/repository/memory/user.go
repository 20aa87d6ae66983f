package memory

import (
	"context"
	"fmt"
	"time"

	"reviewer-service/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, user domain.User) error {
	return s.view(ctx, func(st *state) error {
		if _, ok := st.users[user.UserID]; ok {
			return fmt.Errorf("failed to create user: %s already exists", user.UserID)
		}
		if _, ok := st.teams[user.TeamName]; !ok {
			return fmt.Errorf("failed to create user: %w: team %s", domain.ErrNotFound, user.TeamName)
		}
		st.users[user.UserID] = user
		return nil
	})
}

func (s *Store) UpdateUser(ctx context.Context, user domain.User) error {
	return s.view(ctx, func(st *state) error {
		if _, ok := st.users[user.UserID]; !ok {
			return fmt.Errorf("%w: user %s", domain.ErrNotFound, user.UserID)
		}
		if _, ok := st.teams[user.TeamName]; !ok {
			return fmt.Errorf("failed to update user: %w: team %s", domain.ErrNotFound, user.TeamName)
		}
		st.users[user.UserID] = user
		return nil
	})
}

func (s *Store) GetUser(ctx context.Context, userID string) (domain.User, error) {
	var user domain.User
	err := s.view(ctx, func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
		}
		user = u
		return nil
	})
	return user, err
}

func (s *Store) GetTeamMembers(ctx context.Context, teamName string) ([]domain.User, error) {
	var members []domain.User
	err := s.view(ctx, func(st *state) error {
		members = st.membersOf(teamName)
		return nil
	})
	return members, err
}

func (s *Store) DeactivateTeamMembers(ctx context.Context, teamName string) (int, error) {
	var changed int
	err := s.view(ctx, func(st *state) error {
		now := time.Now()
		for id, u := range st.users {
			if u.TeamName != teamName || !u.IsActive {
				continue
			}
			u.IsActive = false
			u.UpdatedAt = now
			st.users[id] = u
			changed++
		}
		return nil
	})
	return changed, err
}
