package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/database"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports liveness and whether the database answers
func (h *HealthHandler) Health(c *gin.Context) {
	if err := database.Ping(h.db); err != nil {
		_ = c.Error(err)
		apierrors.ServiceUnavailable(c, "Database unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Todo API is running",
	})
}
