package repository

import (
	"context"

	"reviewer-service/internal/db"
	"reviewer-service/internal/domain"
)

// TeamRepository defines methods for team data access
type TeamRepository interface {
	// CreateTeam fails with domain.ErrTeamExists when the name is taken.
	CreateTeam(ctx context.Context, team domain.Team) error
	GetTeam(ctx context.Context, teamName string) (domain.Team, error)
}

// UserRepository defines methods for user data access
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
	GetTeamMembers(ctx context.Context, teamName string) ([]domain.User, error)
	DeactivateTeamMembers(ctx context.Context, teamName string) (int, error)
}

type PRRepository interface {
	// CreatePR fails with domain.ErrPRExists when the id is taken.
	CreatePR(ctx context.Context, pr domain.PullRequest) error
	// GetPRForUpdate loads the pull request with its reviewers and locks it
	// until the surrounding transaction ends.
	GetPRForUpdate(ctx context.Context, prID string) (domain.PullRequest, error)
	UpdatePR(ctx context.Context, pr domain.PullRequest) error
	AssignReviewers(ctx context.Context, prID string, reviewers []string) error
	ReplaceReviewer(ctx context.Context, prID, oldUserID, newUserID string) error
	GetPRsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error)
	PRExists(ctx context.Context, prID string) (bool, error)
	// GetOpenPRIDsByReviewerTeam returns OPEN pull requests that have at
	// least one reviewer from teamName, ordered by id and locked.
	GetOpenPRIDsByReviewerTeam(ctx context.Context, teamName string) ([]string, error)
}

type StatsRepository interface {
	GetStats(ctx context.Context) (domain.Stats, error)
}

type BaseRepository struct {
	cm db.EngineFactory
}

func NewBaseRepository(cm db.EngineFactory) BaseRepository {
	return BaseRepository{cm: cm}
}

func (r *BaseRepository) Engine(ctx context.Context) db.Engine {
	return r.cm.Get(ctx)
}
