package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound     = kindError(ErrNotFound, "category not found")
	ErrCategoryNameRequired = kindError(ErrValidation, "category name is required")
	ErrCategoryNameLength   = kindError(ErrValidation, fmt.Sprintf("category name must be between %d and %d characters",
		constants.MinCategoryNameLength, constants.MaxCategoryNameLength))
	ErrCategoryDescriptionTooLong = kindError(ErrValidation, fmt.Sprintf("category description must be at most %d characters",
		constants.MaxCategoryDescriptionLength))
	ErrCategoryNameTaken = kindError(ErrConflict, "category name already exists")
)

// CategoryService provides business logic for category operations.
// Callers are expected to have checked the admin role before mutating.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
	}
}

// CategoryInput represents parameters to create or update a category.
type CategoryInput struct {
	Name        string
	Description string
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(input CategoryInput) (*models.Category, error) {
	if err := validateCategory(input); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// GetCategory returns a category by ID.
func (s *CategoryService) GetCategory(id uint64) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

// UpdateCategory replaces the name and description of a category.
func (s *CategoryService) UpdateCategory(id uint64, input CategoryInput) (*models.Category, error) {
	if err := validateCategory(input); err != nil {
		return nil, err
	}

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Description = input.Description

	if err := s.categoryRepo.Update(category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory deletes a category once it is known to exist. Tasks that
// still reference it are not checked.
func (s *CategoryService) DeleteCategory(id uint64) error {
	exists, err := s.categoryRepo.Exists(id)
	if err != nil {
		return fmt.Errorf("failed to find category: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// ListCategories returns every category.
func (s *CategoryService) ListCategories() ([]models.Category, error) {
	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func validateCategory(input CategoryInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrCategoryNameRequired
	}
	if n := utf8.RuneCountInString(name); n < constants.MinCategoryNameLength || n > constants.MaxCategoryNameLength {
		return ErrCategoryNameLength
	}
	if utf8.RuneCountInString(input.Description) > constants.MaxCategoryDescriptionLength {
		return ErrCategoryDescriptionTooLong
	}
	return nil
}
