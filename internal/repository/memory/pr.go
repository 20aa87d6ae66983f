package memory

import (
	"context"
	"fmt"
	"sort"

	"reviewer-service/internal/domain"
)

func (s *Store) CreatePR(ctx context.Context, pr domain.PullRequest) error {
	return s.view(ctx, func(st *state) error {
		if _, ok := st.prs[pr.PullRequestID]; ok {
			return fmt.Errorf("%w: %s", domain.ErrPRExists, pr.PullRequestID)
		}
		if _, ok := st.users[pr.AuthorID]; !ok {
			return fmt.Errorf("failed to create pull request: %w: user %s", domain.ErrNotFound, pr.AuthorID)
		}
		stored := pr.Clone()
		stored.AssignedReviewers = stored.AssignedReviewers[:0]
		st.prs[pr.PullRequestID] = stored
		return nil
	})
}

// GetPRForUpdate needs no extra locking: transactions already run one at a time.
func (s *Store) GetPRForUpdate(ctx context.Context, prID string) (domain.PullRequest, error) {
	var pr domain.PullRequest
	err := s.view(ctx, func(st *state) error {
		stored, ok := st.prs[prID]
		if !ok {
			return fmt.Errorf("%w: pull request %s", domain.ErrNotFound, prID)
		}
		pr = stored.Clone()
		return nil
	})
	return pr, err
}

func (s *Store) UpdatePR(ctx context.Context, pr domain.PullRequest) error {
	return s.view(ctx, func(st *state) error {
		stored, ok := st.prs[pr.PullRequestID]
		if !ok {
			return fmt.Errorf("%w: pull request %s", domain.ErrNotFound, pr.PullRequestID)
		}
		updated := pr.Clone()
		updated.AssignedReviewers = stored.AssignedReviewers
		updated.CreatedAt = stored.CreatedAt
		st.prs[pr.PullRequestID] = updated
		return nil
	})
}

func (s *Store) AssignReviewers(ctx context.Context, prID string, reviewers []string) error {
	return s.view(ctx, func(st *state) error {
		pr, ok := st.prs[prID]
		if !ok {
			return fmt.Errorf("%w: pull request %s", domain.ErrNotFound, prID)
		}
		for _, id := range reviewers {
			if _, ok := st.users[id]; !ok {
				return fmt.Errorf("failed to assign reviewer: %w: user %s", domain.ErrNotFound, id)
			}
			if pr.IsReviewerAssigned(id) {
				return fmt.Errorf("failed to assign reviewer: %s already assigned to %s", id, prID)
			}
		}
		pr.AssignedReviewers = append(pr.AssignedReviewers, reviewers...)
		st.prs[prID] = pr
		return nil
	})
}

func (s *Store) ReplaceReviewer(ctx context.Context, prID, oldUserID, newUserID string) error {
	return s.view(ctx, func(st *state) error {
		pr, ok := st.prs[prID]
		if !ok {
			return fmt.Errorf("%w: pull request %s", domain.ErrNotFound, prID)
		}
		if _, ok := st.users[newUserID]; !ok {
			return fmt.Errorf("failed to replace reviewer: %w: user %s", domain.ErrNotFound, newUserID)
		}
		if pr.IsReviewerAssigned(newUserID) {
			return fmt.Errorf("failed to replace reviewer: %s already assigned to %s", newUserID, prID)
		}
		for i, id := range pr.AssignedReviewers {
			if id == oldUserID {
				pr.AssignedReviewers[i] = newUserID
				st.prs[prID] = pr
				return nil
			}
		}
		return fmt.Errorf("%w: %s on %s", domain.ErrNotAssigned, oldUserID, prID)
	})
}

func (s *Store) GetPRsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error) {
	prs := make([]domain.PullRequest, 0)
	err := s.view(ctx, func(st *state) error {
		for _, pr := range st.prs {
			if pr.IsReviewerAssigned(userID) {
				prs = append(prs, pr.Clone())
			}
		}
		return nil
	})
	sort.Slice(prs, func(i, j int) bool {
		if !prs[i].CreatedAt.Equal(prs[j].CreatedAt) {
			return prs[i].CreatedAt.Before(prs[j].CreatedAt)
		}
		return prs[i].PullRequestID < prs[j].PullRequestID
	})
	return prs, err
}

func (s *Store) PRExists(ctx context.Context, prID string) (bool, error) {
	var exists bool
	err := s.view(ctx, func(st *state) error {
		_, exists = st.prs[prID]
		return nil
	})
	return exists, err
}

func (s *Store) GetOpenPRIDsByReviewerTeam(ctx context.Context, teamName string) ([]string, error) {
	ids := make([]string, 0)
	err := s.view(ctx, func(st *state) error {
		for id, pr := range st.prs {
			if pr.IsMerged() {
				continue
			}
			for _, rid := range pr.AssignedReviewers {
				if st.users[rid].TeamName == teamName {
					ids = append(ids, id)
					break
				}
			}
		}
		return nil
	})
	sort.Strings(ids)
	return ids, err
}
