package repository

import (
	"time"

	"github.com/yukikurage/todo-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// FindOwnership returns the task id together with its owner's username
	FindOwnership(id uint64) (*models.TaskOwnership, error)

	// Search retrieves tasks matching every set field of the filter
	Search(filter TaskFilter) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// TaskFilter holds the optional search predicates. Nil fields match everything.
type TaskFilter struct {
	Username    *string
	Name        *string
	Description *string
	Deadline    *time.Time
	CategoryID  *uint64
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(category *models.Category) error

	// FindByID finds a category by ID
	FindByID(id uint64) (*models.Category, error)

	// Exists reports whether a category with the ID exists
	Exists(id uint64) (bool, error)

	// List returns every category
	List() ([]models.Category, error)

	// Update updates a category
	Update(category *models.Category) error

	// Delete soft deletes a category
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithRoles creates a user and its roles within a single transaction
	CreateWithRoles(user *models.User, roles []models.Role) error

	// AddRole grants a role to a user, ignoring roles already held
	AddRole(userID uint64, role models.Role) error

	// FindByID finds a user by ID with its roles
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username with its roles
	FindByUsername(username string) (*models.User, error)
}
