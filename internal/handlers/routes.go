package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/models"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Category *CategoryHandler
	Task     *TaskHandler
}

// RegisterRoutes mounts the API on r. requireAuth resolves the principal for
// every protected route. Session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, h Handlers, requireAuth gin.HandlerFunc) {
	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", requireAuth, h.Auth.GetCurrentUser)
		}

		categories := api.Group("/categories")
		categories.Use(requireAuth)
		{
			admin := middleware.RequireRole(models.RoleAdmin)
			categories.GET("", h.Category.ListCategories)
			categories.GET("/:id", h.Category.GetCategory)
			categories.POST("", admin, h.Category.CreateCategory)
			categories.PUT("/:id", admin, h.Category.UpdateCategory)
			categories.DELETE("/:id", admin, h.Category.DeleteCategory)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("", h.Task.CreateTask)
			tasks.GET("/search", h.Task.SearchTasks)
			tasks.POST("/suggest", h.Task.SuggestTasks)
			tasks.GET("/:id", h.Task.GetTask)
			tasks.PUT("/:id", h.Task.UpdateTask)
			tasks.DELETE("/:id", h.Task.DeleteTask)
		}
	}
}
