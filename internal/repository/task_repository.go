package repository

import (
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindOwnership reads the owner username of a task in one query
func (r *GormTaskRepository) FindOwnership(id uint64) (*models.TaskOwnership, error) {
	var ownership models.TaskOwnership
	err := r.db.Model(&models.Task{}).
		Select("tasks.id AS task_id, tasks.user_id AS user_id, users.username AS username").
		Joins("JOIN users ON users.id = tasks.user_id").
		Where("tasks.id = ?", id).
		Take(&ownership).Error
	if err != nil {
		return nil, err
	}
	return &ownership, nil
}

// Search retrieves tasks matching every set field of the filter
func (r *GormTaskRepository) Search(filter TaskFilter) ([]models.Task, error) {
	query := r.db.Model(&models.Task{}).Select("tasks.*")

	if filter.Username != nil {
		query = query.Joins("JOIN users ON users.id = tasks.user_id").
			Where("users.username = ?", *filter.Username)
	}
	if filter.Name != nil {
		query = query.Scopes(database.ContainsFold("tasks.name", *filter.Name))
	}
	if filter.Description != nil {
		query = query.Scopes(database.ContainsFold("tasks.description", *filter.Description))
	}
	if filter.Deadline != nil {
		query = query.Scopes(database.OnDay("tasks.deadline", *filter.Deadline))
	}
	if filter.CategoryID != nil {
		query = query.Where("tasks.category_id = ?", *filter.CategoryID)
	}

	tasks := []models.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}
