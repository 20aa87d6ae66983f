package repository

import (
	"context"
	"fmt"

	"reviewer-service/internal/db"
	"reviewer-service/internal/domain"

	"github.com/georgysavva/scany/v2/pgxscan"
)

const prColumns = `pull_request_id, pull_request_name, author_id, status, created_at, merged_at`

type prRepository struct {
	BaseRepository
}

func NewPRRepository(cm db.EngineFactory) PRRepository {
	return &prRepository{
		BaseRepository: NewBaseRepository(cm),
	}
}

func (r *prRepository) CreatePR(ctx context.Context, pr domain.PullRequest) error {
	query := `
		INSERT INTO pull_requests (` + prColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (pull_request_id) DO NOTHING
	`
	tag, err := r.Engine(ctx).Exec(ctx, query,
		pr.PullRequestID, pr.PullRequestName, pr.AuthorID, pr.Status, pr.CreatedAt, pr.MergedAt)
	if err != nil {
		return fmt.Errorf("failed to create pull request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPRExists, pr.PullRequestID)
	}
	return nil
}

func (r *prRepository) GetPRForUpdate(ctx context.Context, prID string) (domain.PullRequest, error) {
	query := `
		SELECT ` + prColumns + `
		FROM pull_requests
		WHERE pull_request_id = $1
		FOR UPDATE
	`
	var pr domain.PullRequest
	err := pgxscan.Get(ctx, r.Engine(ctx), &pr, query, prID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return domain.PullRequest{}, fmt.Errorf("%w: pull request %s", domain.ErrNotFound, prID)
		}
		return domain.PullRequest{}, fmt.Errorf("failed to get pull request: %w", err)
	}

	reviewers, err := r.loadReviewers(ctx, []string{prID})
	if err != nil {
		return domain.PullRequest{}, err
	}
	pr.AssignedReviewers = reviewers[prID]
	if pr.AssignedReviewers == nil {
		pr.AssignedReviewers = make([]string, 0)
	}
	return pr, nil
}

// UpdatePR persists status and merge timestamp; reviewers have their own methods
func (r *prRepository) UpdatePR(ctx context.Context, pr domain.PullRequest) error {
	query := `
		UPDATE pull_requests
		SET pull_request_name = $2, status = $3, merged_at = $4
		WHERE pull_request_id = $1
	`
	tag, err := r.Engine(ctx).Exec(ctx, query, pr.PullRequestID, pr.PullRequestName, pr.Status, pr.MergedAt)
	if err != nil {
		return fmt.Errorf("failed to update pull request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: pull request %s", domain.ErrNotFound, pr.PullRequestID)
	}
	return nil
}

func (r *prRepository) AssignReviewers(ctx context.Context, prID string, reviewers []string) error {
	query := `
		INSERT INTO pr_reviewers (pull_request_id, user_id, slot)
		VALUES ($1, $2, $3)
	`
	for slot, userID := range reviewers {
		if _, err := r.Engine(ctx).Exec(ctx, query, prID, userID, slot); err != nil {
			return fmt.Errorf("failed to assign reviewer %s: %w", userID, err)
		}
	}
	return nil
}

// ReplaceReviewer rewrites the reviewer in place so the slot is kept
func (r *prRepository) ReplaceReviewer(ctx context.Context, prID, oldUserID, newUserID string) error {
	query := `
		UPDATE pr_reviewers
		SET user_id = $3
		WHERE pull_request_id = $1 AND user_id = $2
	`
	tag, err := r.Engine(ctx).Exec(ctx, query, prID, oldUserID, newUserID)
	if err != nil {
		return fmt.Errorf("failed to replace reviewer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s on %s", domain.ErrNotAssigned, oldUserID, prID)
	}
	return nil
}

func (r *prRepository) GetPRsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error) {
	query := `
		SELECT p.pull_request_id, p.pull_request_name, p.author_id, p.status, p.created_at, p.merged_at
		FROM pull_requests p
		JOIN pr_reviewers r ON r.pull_request_id = p.pull_request_id
		WHERE r.user_id = $1
		ORDER BY p.created_at, p.pull_request_id
	`
	prs := make([]domain.PullRequest, 0)
	if err := pgxscan.Select(ctx, r.Engine(ctx), &prs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get pull requests by reviewer: %w", err)
	}
	if len(prs) == 0 {
		return prs, nil
	}

	ids := make([]string, len(prs))
	for i, pr := range prs {
		ids[i] = pr.PullRequestID
	}
	reviewers, err := r.loadReviewers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range prs {
		prs[i].AssignedReviewers = reviewers[prs[i].PullRequestID]
	}
	return prs, nil
}

func (r *prRepository) PRExists(ctx context.Context, prID string) (bool, error) {
	query := `
		SELECT EXISTS(SELECT 1 FROM pull_requests WHERE pull_request_id = $1)
	`
	var exists bool
	if err := r.Engine(ctx).QueryRow(ctx, query, prID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pull request existence: %w", err)
	}
	return exists, nil
}

func (r *prRepository) GetOpenPRIDsByReviewerTeam(ctx context.Context, teamName string) ([]string, error) {
	query := `
		SELECT p.pull_request_id
		FROM pull_requests p
		WHERE p.status = 'OPEN'
		  AND EXISTS (
			SELECT 1
			FROM pr_reviewers r
			JOIN users u ON u.user_id = r.user_id
			WHERE r.pull_request_id = p.pull_request_id AND u.team_name = $1
		  )
		ORDER BY p.pull_request_id
		FOR UPDATE OF p
	`
	ids := make([]string, 0)
	if err := pgxscan.Select(ctx, r.Engine(ctx), &ids, query, teamName); err != nil {
		return nil, fmt.Errorf("failed to get open pull requests for team: %w", err)
	}
	return ids, nil
}

type reviewerRow struct {
	PullRequestID string `db:"pull_request_id"`
	UserID        string `db:"user_id"`
}

func (r *prRepository) loadReviewers(ctx context.Context, prIDs []string) (map[string][]string, error) {
	query := `
		SELECT pull_request_id, user_id
		FROM pr_reviewers
		WHERE pull_request_id = ANY($1)
		ORDER BY pull_request_id, slot
	`
	var rows []reviewerRow
	if err := pgxscan.Select(ctx, r.Engine(ctx), &rows, query, prIDs); err != nil {
		return nil, fmt.Errorf("failed to get reviewers: %w", err)
	}

	out := make(map[string][]string, len(prIDs))
	for _, id := range prIDs {
		out[id] = make([]string, 0, domain.MaxReviewers)
	}
	for _, row := range rows {
		out[row.PullRequestID] = append(out[row.PullRequestID], row.UserID)
	}
	return out, nil
}
