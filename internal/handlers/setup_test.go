package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "password123"

var testNow = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

type apiTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

func setupAPITestEnv(t *testing.T, aiService *services.AIService) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := database.Connect(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"}, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, log))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)

	authService := services.NewAuthService(userRepo).WithBcryptCost(bcrypt.MinCost)
	accessService := services.NewAccessService(taskRepo)
	taskService := services.NewTaskService(taskRepo, categoryRepo, accessService).
		WithClock(func() time.Time { return testNow })
	categoryService := services.NewCategoryService(categoryRepo)

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, Handlers{
		Health:   NewHealthHandler(db),
		Auth:     NewAuthHandler(authService),
		Category: NewCategoryHandler(categoryService),
		Task:     NewTaskHandler(taskService, aiService),
	}, middleware.RequireAuth(authService))

	return &apiTestEnv{
		db:          db,
		router:      r,
		authService: authService,
	}
}

func (env *apiTestEnv) signup(t *testing.T, username string) {
	t.Helper()
	_, err := env.authService.Signup(services.SignupInput{Username: username, Password: testPassword})
	require.NoError(t, err)
}

func (env *apiTestEnv) createAdmin(t *testing.T, username string) {
	t.Helper()
	_, err := env.authService.EnsureAdmin(username, testPassword)
	require.NoError(t, err)
}

func (env *apiTestEnv) createCategory(t *testing.T, name string) uint64 {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, env.db.Create(&category).Error)
	return category.ID
}

// request performs an HTTP call authenticated with Basic credentials when
// username is not empty.
func (env *apiTestEnv) request(t *testing.T, method, url, username string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		req.SetBasicAuth(username, testPassword)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
}

