package models

type User struct {
	ID           int    `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Fullname     string `json:"fullname" db:"fullname"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	TeamID       *int   `json:"team_id,omitempty" db:"team_id"`

	// Joined from teams (not always populated).
	TeamName string `json:"team_name,omitempty" db:"team_name"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Fullname string `json:"fullname" binding:"required"`
	Role     string `json:"role" binding:"required"`
	TeamID   *int   `json:"team_id"`
}

type UpdateUserRequest struct {
	Fullname *string `json:"fullname"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	TeamID   *int    `json:"team_id"`
}

type UserChanges struct {
	Fullname     *string
	PasswordHash *string
	Role         *string
	TeamID       *int
}

func (c *UserChanges) HasChanges() bool {
	return c.Fullname != nil || c.PasswordHash != nil || c.Role != nil || c.TeamID != nil
}
