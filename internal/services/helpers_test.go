package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const hour = time.Hour

// fixedNow is the clock every service test runs at
var fixedNow = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

type serviceTestEnv struct {
	db              *gorm.DB
	taskRepo        repository.TaskRepository
	categoryRepo    repository.CategoryRepository
	userRepo        repository.UserRepository
	accessService   *AccessService
	taskService     *TaskService
	categoryService *CategoryService
	authService     *AuthService
}

func setupServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))

	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	accessService := NewAccessService(taskRepo)

	return &serviceTestEnv{
		db:              db,
		taskRepo:        taskRepo,
		categoryRepo:    categoryRepo,
		userRepo:        userRepo,
		accessService:   accessService,
		taskService:     NewTaskService(taskRepo, categoryRepo, accessService).WithClock(func() time.Time { return fixedNow }),
		categoryService: NewCategoryService(categoryRepo),
		authService:     NewAuthService(userRepo).WithBcryptCost(bcrypt.MinCost),
	}
}

func (env *serviceTestEnv) createPrincipal(t *testing.T, username string, roles ...models.Role) *auth.Principal {
	t.Helper()

	user := &models.User{Username: username, PasswordHash: "hashedpassword"}
	require.NoError(t, env.userRepo.CreateWithRoles(user, roles))
	return auth.NewPrincipal(*user)
}

func (env *serviceTestEnv) createCategory(t *testing.T, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	require.NoError(t, env.categoryRepo.Create(category))
	return category
}

// createTask stores a task directly, bypassing deadline validation
func (env *serviceTestEnv) createTask(t *testing.T, name string, deadline time.Time, owner *auth.Principal, categoryID uint64) *models.Task {
	t.Helper()

	task := &models.Task{
		Name:       name,
		Deadline:   deadline,
		UserID:     owner.UserID,
		CategoryID: categoryID,
	}
	require.NoError(t, env.taskRepo.Create(task))
	return task
}
