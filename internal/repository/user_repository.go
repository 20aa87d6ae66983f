package repository

import (
	"context"
	"fmt"

	"reviewer-service/internal/db"
	"reviewer-service/internal/domain"

	"github.com/georgysavva/scany/v2/pgxscan"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(cm db.EngineFactory) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(cm),
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, username, team_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.Engine(ctx).Exec(ctx, query,
		user.UserID, user.Username, user.TeamName, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser updates user information
func (r *userRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET username = $2, team_name = $3, is_active = $4, updated_at = $5
		WHERE user_id = $1
	`
	tag, err := r.Engine(ctx).Exec(ctx, query,
		user.UserID, user.Username, user.TeamName, user.IsActive, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, user.UserID)
	}
	return nil
}

func (r *userRepository) GetUser(ctx context.Context, userID string) (domain.User, error) {
	query := `
		SELECT user_id, username, team_name, is_active, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`
	var user domain.User
	err := pgxscan.Get(ctx, r.Engine(ctx), &user, query, userID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
		}
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetTeamMembers(ctx context.Context, teamName string) ([]domain.User, error) {
	query := `
		SELECT user_id, username, team_name, is_active, created_at, updated_at
		FROM users
		WHERE team_name = $1
		ORDER BY username, user_id
	`
	users := make([]domain.User, 0)
	err := pgxscan.Select(ctx, r.Engine(ctx), &users, query, teamName)
	if err != nil {
		return nil, fmt.Errorf("failed to get team members: %w", err)
	}
	return users, nil
}

// DeactivateTeamMembers marks every member of teamName inactive and returns
// how many rows changed.
func (r *userRepository) DeactivateTeamMembers(ctx context.Context, teamName string) (int, error) {
	query := `
		UPDATE users
		SET is_active = FALSE, updated_at = now()
		WHERE team_name = $1 AND is_active
	`
	tag, err := r.Engine(ctx).Exec(ctx, query, teamName)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate team members: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
