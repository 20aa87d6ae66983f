package team

import (
	"context"
	"errors"
	"fmt"

	"reviewer-service/internal/db"
	"reviewer-service/internal/domain"

	"go.uber.org/zap"
)

type teamRepository interface {
	CreateTeam(ctx context.Context, team domain.Team) error
	GetTeam(ctx context.Context, teamName string) (domain.Team, error)
}

type userRepository interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
	CreateUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
}

// Service handles team business logic
type Service struct {
	teamRepo   teamRepository
	userRepo   userRepository
	transactor db.Transactioner
	logger     *zap.Logger
}

// NewService creates a new team service
func NewService(
	teamRepo teamRepository,
	userRepo userRepository,
	transactor db.Transactioner,
	logger *zap.Logger,
) *Service {
	return &Service{
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		transactor: transactor,
		logger:     logger,
	}
}

// CreateTeam creates a team and upserts its members in one transaction.
// Members that already exist are moved into the team and their username and
// active flag are overwritten.
func (s *Service) CreateTeam(
	ctx context.Context,
	teamName string,
	members []domain.User,
) (domain.Team, error) {
	if teamName == "" {
		return domain.Team{}, fmt.Errorf("%w: team_name is required", domain.ErrInvalidArgument)
	}

	seen := make(map[string]struct{}, len(members))
	for i := range members {
		if members[i].UserID == "" || members[i].Username == "" {
			return domain.Team{}, fmt.Errorf("%w: member user_id and username are required", domain.ErrInvalidArgument)
		}
		if _, dup := seen[members[i].UserID]; dup {
			return domain.Team{}, fmt.Errorf("%w: duplicate member %s", domain.ErrInvalidArgument, members[i].UserID)
		}
		seen[members[i].UserID] = struct{}{}
	}

	var team domain.Team
	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		if err := s.teamRepo.CreateTeam(txCtx, domain.NewTeam(teamName, nil)); err != nil {
			return err
		}

		for _, member := range members {
			if err := s.upsertMember(txCtx, teamName, member); err != nil {
				return err
			}
		}

		var err error
		team, err = s.teamRepo.GetTeam(txCtx, teamName)
		return err
	})
	if err != nil {
		return domain.Team{}, err
	}

	s.logger.Info("Team created", zap.String("team_name", teamName), zap.Int("members", len(team.Members)))
	return team, nil
}

func (s *Service) upsertMember(ctx context.Context, teamName string, member domain.User) error {
	existing, err := s.userRepo.GetUser(ctx, member.UserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return s.userRepo.CreateUser(ctx, domain.NewUser(member.UserID, member.Username, teamName, member.IsActive))
	case err != nil:
		return err
	}

	if existing.TeamName != teamName {
		s.logger.Debug("Moving user to team",
			zap.String("user_id", existing.UserID),
			zap.String("from", existing.TeamName),
			zap.String("to", teamName),
		)
	}
	existing.MoveTo(teamName, member.Username, member.IsActive)
	return s.userRepo.UpdateUser(ctx, existing)
}

// GetTeam retrieves a team with its members
func (s *Service) GetTeam(ctx context.Context, teamName string) (domain.Team, error) {
	if teamName == "" {
		return domain.Team{}, fmt.Errorf("%w: team_name is required", domain.ErrInvalidArgument)
	}
	return s.teamRepo.GetTeam(ctx, teamName)
}
