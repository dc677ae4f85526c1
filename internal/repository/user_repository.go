package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateUserRole is returned when granting a role fails inside the signup transaction.
	ErrCreateUserRole = errors.New("user repository: create user role failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithRoles creates a user and its roles atomically.
func (r *GormUserRepository) CreateWithRoles(user *models.User, roles []models.Role) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		if len(roles) == 0 {
			return nil
		}

		userRoles := make([]models.UserRole, len(roles))
		for i, role := range roles {
			userRoles[i] = models.UserRole{UserID: user.ID, Role: role}
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&userRoles).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUserRole, err)
		}

		user.Roles = userRoles
		return nil
	})
}

// AddRole grants a role to a user, ignoring roles already held
func (r *GormUserRepository) AddRole(userID uint64, role models.Role) error {
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, Role: role}).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Roles").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Roles").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
