package repository

import (
	"context"
	"fmt"

	"reviewer-service/internal/db"
	"reviewer-service/internal/domain"

	"github.com/georgysavva/scany/v2/pgxscan"
)

type teamRepository struct {
	BaseRepository
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(cm db.EngineFactory) TeamRepository {
	return &teamRepository{
		BaseRepository: NewBaseRepository(cm),
	}
}

// CreateTeam inserts the team row only; members are written by the user repository
func (r *teamRepository) CreateTeam(ctx context.Context, team domain.Team) error {
	query := `
		INSERT INTO teams (team_name, created_at, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_name) DO NOTHING
	`
	tag, err := r.Engine(ctx).Exec(ctx, query, team.TeamName, team.CreatedAt, team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTeamExists, team.TeamName)
	}
	return nil
}

// GetTeam retrieves a team with its members
func (r *teamRepository) GetTeam(ctx context.Context, teamName string) (domain.Team, error) {
	var team domain.Team
	teamQuery := `
		SELECT team_name, created_at, updated_at
		FROM teams
		WHERE team_name = $1
	`
	err := pgxscan.Get(ctx, r.Engine(ctx), &team, teamQuery, teamName)
	if err != nil {
		if pgxscan.NotFound(err) {
			return domain.Team{}, fmt.Errorf("%w: team %s", domain.ErrNotFound, teamName)
		}
		return domain.Team{}, fmt.Errorf("failed to get team: %w", err)
	}

	membersQuery := `
		SELECT user_id, username, team_name, is_active, created_at, updated_at
		FROM users
		WHERE team_name = $1
		ORDER BY username, user_id
	`
	members := make([]domain.User, 0)
	err = pgxscan.Select(ctx, r.Engine(ctx), &members, membersQuery, teamName)
	if err != nil {
		return domain.Team{}, fmt.Errorf("failed to get team members: %w", err)
	}

	team.Members = members
	return team, nil
}
