package pullrequest

import (
	"context"
	"fmt"
	"time"

	"reviewer-service/internal/db"
	"reviewer-service/internal/domain"

	"go.uber.org/zap"
)

type prRepository interface {
	CreatePR(ctx context.Context, pr domain.PullRequest) error
	GetPRForUpdate(ctx context.Context, prID string) (domain.PullRequest, error)
	UpdatePR(ctx context.Context, pr domain.PullRequest) error
	AssignReviewers(ctx context.Context, prID string, reviewers []string) error
	ReplaceReviewer(ctx context.Context, prID, oldUserID, newUserID string) error
	PRExists(ctx context.Context, prID string) (bool, error)
}

type userRepository interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
	GetTeamMembers(ctx context.Context, teamName string) ([]domain.User, error)
}

type reviewerSelector interface {
	SelectReviewers(ctx context.Context, team domain.Team, authorID string) []string
	SelectReplacementReviewer(ctx context.Context, team domain.Team, excludeUserIDs []string) (string, error)
}

// Service handles pull request business logic
type Service struct {
	prRepo     prRepository
	userRepo   userRepository
	transactor db.Transactioner
	selector   reviewerSelector
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a new PR service
func NewService(
	prRepo prRepository,
	userRepo userRepository,
	transactor db.Transactioner,
	selector reviewerSelector,
	logger *zap.Logger,
) *Service {
	return &Service{
		prRepo:     prRepo,
		userRepo:   userRepo,
		transactor: transactor,
		selector:   selector,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreatePR creates PR and auto-assigns reviewers from the author's team
func (s *Service) CreatePR(
	ctx context.Context,
	prID, prName, authorID string,
) (domain.PullRequest, error) {
	if prID == "" || prName == "" || authorID == "" {
		return domain.PullRequest{}, domain.ErrInvalidArgument
	}

	var pr domain.PullRequest
	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		exists, err := s.prRepo.PRExists(txCtx, prID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", domain.ErrPRExists, prID)
		}

		author, err := s.userRepo.GetUser(txCtx, authorID)
		if err != nil {
			return err
		}

		team, err := s.teamOf(txCtx, author.TeamName)
		if err != nil {
			return err
		}

		reviewerIDs := s.selector.SelectReviewers(txCtx, team, authorID)
		pr = domain.NewPullRequest(prID, prName, authorID, reviewerIDs, s.now())

		if err := s.prRepo.CreatePR(txCtx, pr); err != nil {
			return err
		}
		if len(reviewerIDs) > 0 {
			if err := s.prRepo.AssignReviewers(txCtx, prID, reviewerIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.PullRequest{}, err
	}

	s.logger.Info("Pull request created",
		zap.String("pull_request_id", pr.PullRequestID),
		zap.String("author_id", pr.AuthorID),
		zap.Strings("reviewers", pr.AssignedReviewers),
	)
	return pr, nil
}

// MergePR marks PR as merged (idempotent)
func (s *Service) MergePR(ctx context.Context, prID string) (domain.PullRequest, error) {
	if prID == "" {
		return domain.PullRequest{}, domain.ErrInvalidArgument
	}

	var pr domain.PullRequest
	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		var err error
		pr, err = s.prRepo.GetPRForUpdate(txCtx, prID)
		if err != nil {
			return err
		}

		// Already merged: return the stored state, merged_at stays as is.
		if !pr.Merge(s.now()) {
			return nil
		}
		return s.prRepo.UpdatePR(txCtx, pr)
	})
	if err != nil {
		return domain.PullRequest{}, err
	}

	return pr, nil
}

// ReassignReviewer replaces reviewer with another active member of the old
// reviewer's team. Returns the updated PR and the new reviewer id.
func (s *Service) ReassignReviewer(
	ctx context.Context,
	prID, oldUserID string,
) (domain.PullRequest, string, error) {
	if prID == "" || oldUserID == "" {
		return domain.PullRequest{}, "", domain.ErrInvalidArgument
	}

	var (
		pr        domain.PullRequest
		newUserID string
	)
	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		var err error
		pr, err = s.prRepo.GetPRForUpdate(txCtx, prID)
		if err != nil {
			return err
		}

		if !pr.CanReassign() {
			return fmt.Errorf("%w: %s", domain.ErrPRMerged, prID)
		}
		if !pr.IsReviewerAssigned(oldUserID) {
			return fmt.Errorf("%w: %s on %s", domain.ErrNotAssigned, oldUserID, prID)
		}

		oldUser, err := s.userRepo.GetUser(txCtx, oldUserID)
		if err != nil {
			return err
		}

		team, err := s.teamOf(txCtx, oldUser.TeamName)
		if err != nil {
			return err
		}

		// The old reviewer is among the assigned ones and is excluded with them.
		excludeIDs := append([]string{pr.AuthorID}, pr.AssignedReviewers...)

		newUserID, err = s.selector.SelectReplacementReviewer(txCtx, team, excludeIDs)
		if err != nil {
			return fmt.Errorf("%w: pull request %s", err, prID)
		}

		if err := s.prRepo.ReplaceReviewer(txCtx, prID, oldUserID, newUserID); err != nil {
			return err
		}
		return pr.ReplaceReviewer(oldUserID, newUserID)
	})
	if err != nil {
		return domain.PullRequest{}, "", err
	}

	s.logger.Info("Reviewer reassigned",
		zap.String("pull_request_id", prID),
		zap.String("old_user_id", oldUserID),
		zap.String("new_user_id", newUserID),
	)
	return pr, newUserID, nil
}

func (s *Service) teamOf(ctx context.Context, teamName string) (domain.Team, error) {
	members, err := s.userRepo.GetTeamMembers(ctx, teamName)
	if err != nil {
		return domain.Team{}, err
	}
	return domain.Team{TeamName: teamName, Members: members}, nil
}
