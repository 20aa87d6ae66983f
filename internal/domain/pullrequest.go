package domain

import "time"

// MaxReviewers is the number of reviewers a pull request gets at creation
// when the author's team has enough eligible members.
const MaxReviewers = 2

type PRStatus string

const (
	PRStatusOpen   PRStatus = "OPEN"
	PRStatusMerged PRStatus = "MERGED"
)

type PullRequest struct {
	PullRequestID     string     `db:"pull_request_id"`
	PullRequestName   string     `db:"pull_request_name"`
	AuthorID          string     `db:"author_id"`
	Status            PRStatus   `db:"status"`
	AssignedReviewers []string   `db:"-"`
	CreatedAt         time.Time  `db:"created_at"`
	MergedAt          *time.Time `db:"merged_at"`
}

func NewPullRequest(prID, prName, authorID string, reviewers []string, createdAt time.Time) PullRequest {
	if reviewers == nil {
		reviewers = make([]string, 0)
	}
	return PullRequest{
		PullRequestID:     prID,
		PullRequestName:   prName,
		AuthorID:          authorID,
		Status:            PRStatusOpen,
		AssignedReviewers: reviewers,
		CreatedAt:         createdAt,
		MergedAt:          nil,
	}
}

func (pr *PullRequest) IsMerged() bool {
	return pr.Status == PRStatusMerged
}

func (pr *PullRequest) CanReassign() bool {
	return !pr.IsMerged()
}

// Merge moves the pull request to MERGED. It reports whether the state
// changed; merging an already merged pull request keeps the first timestamp.
func (pr *PullRequest) Merge(at time.Time) bool {
	if pr.IsMerged() {
		return false
	}
	pr.Status = PRStatusMerged
	pr.MergedAt = &at
	return true
}

func (pr *PullRequest) IsReviewerAssigned(userID string) bool {
	for _, rid := range pr.AssignedReviewers {
		if rid == userID {
			return true
		}
	}
	return false
}

// ReplaceReviewer swaps oldUserID for newUserID in place, keeping the
// reviewer's slot.
func (pr *PullRequest) ReplaceReviewer(oldUserID, newUserID string) error {
	if pr.IsMerged() {
		return ErrPRMerged
	}
	for i, rid := range pr.AssignedReviewers {
		if rid == oldUserID {
			pr.AssignedReviewers[i] = newUserID
			return nil
		}
	}
	return ErrNotAssigned
}

// Clone returns a copy that shares no memory with pr.
func (pr PullRequest) Clone() PullRequest {
	out := pr
	out.AssignedReviewers = append(make([]string, 0, len(pr.AssignedReviewers)), pr.AssignedReviewers...)
	if pr.MergedAt != nil {
		mergedAt := *pr.MergedAt
		out.MergedAt = &mergedAt
	}
	return out
}
