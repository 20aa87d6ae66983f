package memory

import (
	"context"
	"fmt"

	"reviewer-service/internal/domain"
)

func (s *Store) CreateTeam(ctx context.Context, team domain.Team) error {
	return s.view(ctx, func(st *state) error {
		if _, ok := st.teams[team.TeamName]; ok {
			return fmt.Errorf("%w: %s", domain.ErrTeamExists, team.TeamName)
		}
		st.teams[team.TeamName] = teamRow{createdAt: team.CreatedAt, updatedAt: team.UpdatedAt}
		return nil
	})
}

func (s *Store) GetTeam(ctx context.Context, teamName string) (domain.Team, error) {
	var team domain.Team
	err := s.view(ctx, func(st *state) error {
		row, ok := st.teams[teamName]
		if !ok {
			return fmt.Errorf("%w: team %s", domain.ErrNotFound, teamName)
		}
		team = domain.Team{
			TeamName:  teamName,
			Members:   st.membersOf(teamName),
			CreatedAt: row.createdAt,
			UpdatedAt: row.updatedAt,
		}
		return nil
	})
	return team, err
}

func (st *state) membersOf(teamName string) []domain.User {
	members := make([]domain.User, 0)
	for _, u := range st.users {
		if u.TeamName == teamName {
			members = append(members, u)
		}
	}
	domain.SortUsers(members)
	return members
}
