package user

import (
	"context"
	"errors"

	"reviewer-service/internal/db"
	"reviewer-service/internal/domain"

	"go.uber.org/zap"
)

type userRepository interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	DeactivateTeamMembers(ctx context.Context, teamName string) (int, error)
}

type teamRepository interface {
	GetTeam(ctx context.Context, teamName string) (domain.Team, error)
}

type prRepository interface {
	GetPRForUpdate(ctx context.Context, prID string) (domain.PullRequest, error)
	GetPRsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error)
	GetOpenPRIDsByReviewerTeam(ctx context.Context, teamName string) ([]string, error)
}

type reviewerReassigner interface {
	ReassignReviewer(ctx context.Context, prID, oldUserID string) (domain.PullRequest, string, error)
}

// Service handles user business logic
type Service struct {
	userRepo   userRepository
	teamRepo   teamRepository
	prRepo     prRepository
	transactor db.Transactioner
	reassigner reviewerReassigner
	logger     *zap.Logger
}

// NewService creates a new user service
func NewService(
	userRepo userRepository,
	teamRepo teamRepository,
	prRepo prRepository,
	transactor db.Transactioner,
	reassigner reviewerReassigner,
	logger *zap.Logger,
) *Service {
	return &Service{
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		prRepo:     prRepo,
		transactor: transactor,
		reassigner: reassigner,
		logger:     logger,
	}
}

// SetIsActive updates user's active status. Assigned reviews are kept.
func (s *Service) SetIsActive(
	ctx context.Context,
	userID string,
	isActive bool,
) (domain.User, error) {
	if userID == "" {
		return domain.User{}, domain.ErrInvalidArgument
	}

	var user domain.User
	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.userRepo.GetUser(txCtx, userID)
		if err != nil {
			return err
		}
		user.SetIsActive(isActive)
		return s.userRepo.UpdateUser(txCtx, user)
	})
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// GetPRsByReviewer returns PRs where user is assigned as reviewer
func (s *Service) GetPRsByReviewer(
	ctx context.Context,
	userID string,
) ([]domain.PullRequest, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	if _, err := s.userRepo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.prRepo.GetPRsByReviewer(ctx, userID)
}

// BulkDeactivateTeam moves every open review held by a member of teamName to
// another eligible user, then deactivates the whole team. Reviews nobody can
// take over are left in place. Replacements are chosen before anyone is
// deactivated, so they may come from the same team.
func (s *Service) BulkDeactivateTeam(ctx context.Context, teamName string) ([]domain.Reassignment, error) {
	if teamName == "" {
		return nil, domain.ErrInvalidArgument
	}

	reassignments := make([]domain.Reassignment, 0)
	var deactivated int

	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		team, err := s.teamRepo.GetTeam(txCtx, teamName)
		if err != nil {
			return err
		}
		members := team.MemberIDs()

		prIDs, err := s.prRepo.GetOpenPRIDsByReviewerTeam(txCtx, teamName)
		if err != nil {
			return err
		}

		for _, prID := range prIDs {
			pr, err := s.prRepo.GetPRForUpdate(txCtx, prID)
			if err != nil {
				return err
			}

			snapshot := append([]string(nil), pr.AssignedReviewers...)
			for _, reviewerID := range snapshot {
				if _, ok := members[reviewerID]; !ok {
					continue
				}

				_, newUserID, err := s.reassigner.ReassignReviewer(txCtx, prID, reviewerID)
				if errors.Is(err, domain.ErrNoCandidate) {
					s.logger.Debug("No replacement for reviewer",
						zap.String("pull_request_id", prID),
						zap.String("user_id", reviewerID),
					)
					continue
				}
				if err != nil {
					return err
				}

				reassignments = append(reassignments, domain.Reassignment{
					PullRequestID: prID,
					OldUserID:     reviewerID,
					NewUserID:     newUserID,
				})
			}
		}

		deactivated, err = s.userRepo.DeactivateTeamMembers(txCtx, teamName)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Team deactivated",
		zap.String("team_name", teamName),
		zap.Int("deactivated_users", deactivated),
		zap.Int("reassigned_reviews", len(reassignments)),
	)
	return reassignments, nil
}
