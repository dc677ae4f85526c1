package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNameRequired       = kindError(ErrValidation, "task name is required")
	ErrTaskNameTooLong        = kindError(ErrValidation, fmt.Sprintf("task name must be at most %d characters", constants.MaxTaskNameLength))
	ErrTaskDescriptionTooLong = kindError(ErrValidation, fmt.Sprintf("task description must be at most %d characters", constants.MaxTaskDescriptionLength))
	ErrDeadlineRequired       = kindError(ErrValidation, "deadline is required")
	ErrDeadlineNotInFuture    = kindError(ErrValidation, "deadline must be in the future")
	ErrTaskCategoryRequired   = kindError(ErrValidation, "category is required")
	ErrTaskCategoryUnknown    = kindError(ErrValidation, "category does not exist")
	ErrTaskOwnerRequired      = kindError(ErrValidation, "user is required")
	ErrSearchAccessDenied     = kindError(ErrAccessDenied, "cannot search tasks of another user")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
	access       *AccessService
	now          func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, categoryRepo repository.CategoryRepository, access *AccessService) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		access:       access,
		now:          time.Now,
	}
}

// WithClock replaces the time source used for deadline validation.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name        string
	Description string
	Deadline    *time.Time
	CategoryID  uint64
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// unchanged; owner and category cannot be reassigned.
type UpdateTaskInput struct {
	Name        *string
	Description *string
	Deadline    *time.Time
}

// CreateTask validates and persists a task owned by the principal
func (s *TaskService) CreateTask(principal *auth.Principal, input CreateTaskInput) (*models.Task, error) {
	if principal == nil {
		return nil, ErrAuthenticationMissing
	}

	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		UserID:      principal.UserID,
	}
	if input.Deadline != nil {
		task.Deadline = input.Deadline.UTC()
	}

	if err := s.validateTask(task); err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.Exists(task.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, ErrTaskCategoryUnknown
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task the principal owns, or any task for admins
func (s *TaskService) GetTask(principal *auth.Principal, taskID uint64) (*models.Task, error) {
	if err := s.access.ValidateAccess(taskID, principal); err != nil {
		return nil, err
	}
	return s.findTask(taskID)
}

// UpdateTask applies the changes after the access check and re-validates the task
func (s *TaskService) UpdateTask(principal *auth.Principal, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if err := s.access.ValidateAccess(taskID, principal); err != nil {
		return nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Deadline != nil {
		task.Deadline = input.Deadline.UTC()
	}

	if err := s.validateTask(task); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task after the access check
func (s *TaskService) DeleteTask(principal *auth.Principal, taskID uint64) error {
	if err := s.access.ValidateAccess(taskID, principal); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// SearchTasks returns every task matching the filter. It applies no access
// rules of its own; see SearchVisibleTasks.
func (s *TaskService) SearchTasks(filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepo.Search(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return tasks, nil
}

// SearchVisibleTasks restricts a search to what the principal may see:
// admins see everything, other users only their own tasks.
func (s *TaskService) SearchVisibleTasks(principal *auth.Principal, filter repository.TaskFilter) ([]models.Task, error) {
	if principal == nil {
		return nil, ErrAuthenticationMissing
	}

	if !principal.IsAdmin() {
		if filter.Username != nil && *filter.Username != principal.Username {
			return nil, ErrSearchAccessDenied
		}
		username := principal.Username
		filter.Username = &username
	}

	return s.SearchTasks(filter)
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) validateTask(task *models.Task) error {
	if strings.TrimSpace(task.Name) == "" {
		return ErrTaskNameRequired
	}
	if utf8.RuneCountInString(task.Name) > constants.MaxTaskNameLength {
		return ErrTaskNameTooLong
	}
	if utf8.RuneCountInString(task.Description) > constants.MaxTaskDescriptionLength {
		return ErrTaskDescriptionTooLong
	}
	if task.Deadline.IsZero() {
		return ErrDeadlineRequired
	}
	if !task.Deadline.After(s.now()) {
		return ErrDeadlineNotInFuture
	}
	if task.CategoryID == 0 {
		return ErrTaskCategoryRequired
	}
	if task.UserID == 0 {
		return ErrTaskOwnerRequired
	}
	return nil
}
