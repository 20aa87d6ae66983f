package domain

import (
	"sort"
	"time"
)

// Team represents a team of users
type Team struct {
	TeamName  string    `db:"team_name"`
	Members   []User    `db:"-"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewTeam creates a new team
func NewTeam(teamName string, members []User) Team {
	now := time.Now()
	return Team{
		TeamName:  teamName,
		Members:   members,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EligibleMembers returns the active members whose ids are not in exclude,
// ordered by username and then by id.
func (t *Team) EligibleMembers(exclude ...string) []User {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	eligible := make([]User, 0, len(t.Members))
	for _, m := range t.Members {
		if !m.CanBeReviewer() {
			continue
		}
		if _, excluded := skip[m.UserID]; excluded {
			continue
		}
		eligible = append(eligible, m)
	}

	SortUsers(eligible)
	return eligible
}

// MemberIDs returns member ids as a set
func (t *Team) MemberIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(t.Members))
	for _, m := range t.Members {
		ids[m.UserID] = struct{}{}
	}
	return ids
}

// SortUsers orders users by username, then by id.
func SortUsers(users []User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].Username != users[j].Username {
			return users[i].Username < users[j].Username
		}
		return users[i].UserID < users[j].UserID
	})
}
