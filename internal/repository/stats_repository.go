package repository

import (
	"context"
	"fmt"

	"reviewer-service/internal/db"
	"reviewer-service/internal/domain"

	"github.com/georgysavva/scany/v2/pgxscan"
)

type statsRepository struct {
	BaseRepository
}

func NewStatsRepository(cm db.EngineFactory) StatsRepository {
	return &statsRepository{
		BaseRepository: NewBaseRepository(cm),
	}
}

type countersRow struct {
	TotalPRs    int `db:"total_prs"`
	OpenPRs     int `db:"open_prs"`
	MergedPRs   int `db:"merged_prs"`
	TotalUsers  int `db:"total_users"`
	ActiveUsers int `db:"active_users"`
	TotalTeams  int `db:"total_teams"`
}

type assignmentRow struct {
	UserID string `db:"user_id"`
	Count  int    `db:"count"`
}

func (r *statsRepository) GetStats(ctx context.Context) (domain.Stats, error) {
	countersQuery := `
		SELECT
			(SELECT COUNT(*) FROM pull_requests)                       AS total_prs,
			(SELECT COUNT(*) FROM pull_requests WHERE status = 'OPEN')   AS open_prs,
			(SELECT COUNT(*) FROM pull_requests WHERE status = 'MERGED') AS merged_prs,
			(SELECT COUNT(*) FROM users)                               AS total_users,
			(SELECT COUNT(*) FROM users WHERE is_active)               AS active_users,
			(SELECT COUNT(*) FROM teams)                               AS total_teams
	`
	var counters countersRow
	if err := pgxscan.Get(ctx, r.Engine(ctx), &counters, countersQuery); err != nil {
		return domain.Stats{}, fmt.Errorf("failed to get counters: %w", err)
	}

	assignmentsQuery := `
		SELECT user_id, COUNT(*) AS count
		FROM pr_reviewers
		GROUP BY user_id
	`
	var rows []assignmentRow
	if err := pgxscan.Select(ctx, r.Engine(ctx), &rows, assignmentsQuery); err != nil {
		return domain.Stats{}, fmt.Errorf("failed to get reviewer assignments: %w", err)
	}

	assignments := make(map[string]int, len(rows))
	for _, row := range rows {
		assignments[row.UserID] = row.Count
	}

	return domain.Stats{
		TotalPRs:            counters.TotalPRs,
		OpenPRs:             counters.OpenPRs,
		MergedPRs:           counters.MergedPRs,
		TotalUsers:          counters.TotalUsers,
		ActiveUsers:         counters.ActiveUsers,
		TotalTeams:          counters.TotalTeams,
		ReviewerAssignments: assignments,
	}, nil
}
