// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID            string    `json:"id" gorm:"primaryKey;size:191"`
	Username      string    `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Name          string    `json:"name" gorm:"not null;size:255"`
	Password      string    `json:"-" gorm:"not null;size:255"`
	EmailVerified bool      `json:"email_verified" gorm:"default:false"`
	Avatar        *string   `json:"avatar" gorm:"size:500"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Profile returns the user as a public profile map with every field in the
// deny-list removed. The full record (password hash included) goes into the
// map first so exposure is governed solely by the configured deny-list.
func (u User) Profile(denyFields []string) map[string]interface{} {
	profile := map[string]interface{}{
		"id":             u.ID,
		"username":       u.Username,
		"email":          u.Email,
		"name":           u.Name,
		"password":       u.Password,
		"email_verified": u.EmailVerified,
		"avatar":         u.Avatar,
		"created_at":     u.CreatedAt,
	}

	for _, field := range denyFields {
		delete(profile, field)
	}

	return profile
}
