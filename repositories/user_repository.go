// File: /repositories/user_repository.go
package repositories

import (
	"errors"

	"gorm.io/gorm"

	"friends-api/models"
	"friends-api/utils"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ResolveIdentifier finds a user by username or email. Returns nil when no
// user matches.
func (r *UserRepository) ResolveIdentifier(identifier string) (*models.User, error) {
	query := r.db
	if utils.IsValidEmail(identifier) {
		query = query.Where("email = ?", identifier)
	} else {
		query = query.Where("username = ?", identifier)
	}

	var user models.User
	err := query.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ResolveID finds a user by id. Returns nil when no user matches.
func (r *UserRepository) ResolveID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
