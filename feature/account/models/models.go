package models

import "time"

// User is the relational record for an authenticated library member.
// Rows are written by the identity boundary on first sight of a verified
// identity; the application never stores credentials.
type User struct {
	ID        string  `gorm:"type:varchar(36);primaryKey"`
	Email     string  `gorm:"size:255;uniqueIndex;not null"`
	Name      *string `gorm:"size:255"`
	PhotoURL  *string `gorm:"size:512"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }

// UserView is the API shape of a user. Absent optional fields stay nil and
// serialize to null; timestamps are RFC 3339 strings.
type UserView struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	PhotoURL  *string `json:"photoURL"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// View converts the store record to its API shape. This is the single
// store-to-API boundary for users.
func (u *User) View() *UserView {
	return &UserView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		PhotoURL:  u.PhotoURL,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}
