package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = kindError(ErrNotFound, "task not found")
	ErrTaskAccessDenied = kindError(ErrAccessDenied, "access denied to task")
)

// AccessService decides whether a principal may act on a task. Ownership is
// read from storage on every call, so role and owner changes apply at once.
type AccessService struct {
	taskRepo repository.TaskRepository
}

// NewAccessService creates a new AccessService
func NewAccessService(taskRepo repository.TaskRepository) *AccessService {
	return &AccessService{
		taskRepo: taskRepo,
	}
}

// IsOwnerOrAdmin reports whether the principal is an admin or owns the task.
// A missing task is ErrTaskNotFound for admins too.
func (s *AccessService) IsOwnerOrAdmin(taskID uint64, principal *auth.Principal) (bool, error) {
	if principal == nil {
		return false, ErrAuthenticationMissing
	}

	ownership, err := s.taskRepo.FindOwnership(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
		}
		return false, fmt.Errorf("failed to find task owner: %w", err)
	}

	if principal.IsAdmin() {
		return true, nil
	}

	return ownership.Username == principal.Username, nil
}

// ValidateAccess returns ErrTaskAccessDenied when IsOwnerOrAdmin is false.
func (s *AccessService) ValidateAccess(taskID uint64, principal *auth.Principal) error {
	allowed, err := s.IsOwnerOrAdmin(taskID, principal)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: %d", ErrTaskAccessDenied, taskID)
	}
	return nil
}
