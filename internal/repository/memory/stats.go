package memory

import (
	"context"

	"reviewer-service/internal/domain"
)

func (s *Store) GetStats(ctx context.Context) (domain.Stats, error) {
	stats := domain.Stats{ReviewerAssignments: make(map[string]int)}
	err := s.view(ctx, func(st *state) error {
		stats.TotalTeams = len(st.teams)
		stats.TotalUsers = len(st.users)
		for _, u := range st.users {
			if u.IsActive {
				stats.ActiveUsers++
			}
		}
		stats.TotalPRs = len(st.prs)
		for _, pr := range st.prs {
			if pr.IsMerged() {
				stats.MergedPRs++
			} else {
				stats.OpenPRs++
			}
			for _, rid := range pr.AssignedReviewers {
				stats.ReviewerAssignments[rid]++
			}
		}
		return nil
	})
	return stats, err
}
