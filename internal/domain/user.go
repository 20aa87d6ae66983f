package domain

import "time"

// User represents a team member
type User struct {
	UserID    string    `db:"user_id"`
	Username  string    `db:"username"`
	TeamName  string    `db:"team_name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewUser creates a new user
func NewUser(userID, username, teamName string, isActive bool) User {
	now := time.Now()
	return User{
		UserID:    userID,
		Username:  username,
		TeamName:  teamName,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanBeReviewer checks if user can be assigned as reviewer
func (u *User) CanBeReviewer() bool {
	return u.IsActive
}

// SetIsActive sets the user's active status
func (u *User) SetIsActive(isActive bool) {
	u.IsActive = isActive
	u.UpdatedAt = time.Now()
}

// MoveTo overwrites the profile fields a team upload controls.
func (u *User) MoveTo(teamName, username string, isActive bool) {
	u.TeamName = teamName
	u.Username = username
	u.SetIsActive(isActive)
}
