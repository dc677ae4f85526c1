package dto

import (
	"time"

	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64        `json:"id"`
	Username string        `json:"username"`
	Roles    []models.Role `json:"roles,omitempty"`
}

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	UserID      uint64    `json:"user_id"`
	CategoryID  uint64    `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskListResponse wraps search results
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
	Count int       `json:"count"`
}

// TaskSuggestionDTO is a draft task returned by the suggest endpoint
type TaskSuggestionDTO struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Roles:    user.RoleSet(),
	}
}

// ToPrincipalDTO converts the acting principal to UserDTO
func ToPrincipalDTO(principal *auth.Principal) UserDTO {
	return UserDTO{
		ID:       principal.UserID,
		Username: principal.Username,
		Roles:    principal.Roles,
	}
}

// ToCategoryDTO converts a Category model to CategoryDTO
func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
}

// ToCategoryDTOs converts a slice of categories
func ToCategoryDTOs(categories []models.Category) []CategoryDTO {
	items := make([]CategoryDTO, len(categories))
	for i, category := range categories {
		items[i] = ToCategoryDTO(category)
	}
	return items
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Deadline:    task.Deadline.UTC(),
		UserID:      task.UserID,
		CategoryID:  task.CategoryID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
		Count: len(items),
	}
}

// ToTaskSuggestionDTOs converts draft tasks produced by the AI service
func ToTaskSuggestionDTOs(suggestions []services.TaskSuggestion) []TaskSuggestionDTO {
	items := make([]TaskSuggestionDTO, len(suggestions))
	for i, suggestion := range suggestions {
		items[i] = TaskSuggestionDTO{
			Name:        suggestion.Name,
			Description: suggestion.Description,
			Deadline:    suggestion.Deadline,
		}
	}
	return items
}
