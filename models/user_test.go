// File: /models/user_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileStripsDenyListedFields(t *testing.T) {
	user := User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "$2a$10$hash",
	}

	profile := user.Profile([]string{"password", "email", "email_verified"})

	assert.Equal(t, "user-1", profile["id"])
	assert.Equal(t, "alice", profile["username"])
	assert.NotContains(t, profile, "password")
	assert.NotContains(t, profile, "email")
	assert.NotContains(t, profile, "email_verified")

	// Unknown deny entries are ignored.
	profile = user.Profile([]string{"no_such_field"})
	assert.Contains(t, profile, "username")
}
