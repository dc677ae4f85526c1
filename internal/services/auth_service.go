package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameLength = kindError(ErrValidation, fmt.Sprintf("username must be between %d and %d characters",
		constants.MinUsernameLength, constants.MaxUsernameLength))
	ErrPasswordTooShort = kindError(ErrValidation, fmt.Sprintf("password must be at least %d characters",
		constants.MinPasswordLength))
	ErrUsernameTaken        = kindError(ErrConflict, "username already exists")
	ErrUserNotFound         = kindError(ErrNotFound, "user not found")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the bcrypt work factor for new password hashes.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Username string
	Password string
}

// Signup creates a new user holding ROLE_USER.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if n := utf8.RuneCountInString(username); n < constants.MinUsernameLength || n > constants.MaxUsernameLength {
		return nil, ErrUsernameLength
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	return s.createUser(username, input.Password, []models.Role{models.RoleUser})
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Authenticate verifies credentials and returns the principal they identify.
func (s *AuthService) Authenticate(username, password string) (*auth.Principal, error) {
	user, err := s.Login(LoginInput{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	return auth.NewPrincipal(*user), nil
}

// PrincipalFor rebuilds the principal of a session user from storage.
func (s *AuthService) PrincipalFor(userID uint64) (*auth.Principal, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	return auth.NewPrincipal(*user), nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// EnsureAdmin makes sure an account with the username exists and holds
// ROLE_ADMIN. An existing account keeps its password. It reports whether the
// account was created.
func (s *AuthService) EnsureAdmin(username, password string) (bool, error) {
	user, err := s.userRepo.FindByUsername(username)
	switch {
	case err == nil:
		if err := s.userRepo.AddRole(user.ID, models.RoleAdmin); err != nil {
			return false, fmt.Errorf("failed to grant admin role: %w", err)
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, err := s.createUser(username, password, []models.Role{models.RoleUser, models.RoleAdmin}); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to find user: %w", err)
	}
}

func (s *AuthService) createUser(username, password string, roles []models.Role) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.CreateWithRoles(user, roles); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
