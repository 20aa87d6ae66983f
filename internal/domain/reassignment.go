package domain

// Reassignment records one reviewer swap made while a team is bulk
// deactivated. The count of these is reported back as reassigned_prs.
type Reassignment struct {
	PullRequestID string
	OldUserID     string
	NewUserID     string
}
