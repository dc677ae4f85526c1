package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/dto"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	aiService   *services.AIService
}

// NewTaskHandler creates a TaskHandler. aiService may be nil, in which case
// the suggest endpoint answers 503.
func NewTaskHandler(taskService *services.TaskService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		aiService:   aiService,
	}
}

// CreateTask creates a task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Name        string     `json:"name"`
		Description string     `json:"description"`
		Deadline    *time.Time `json:"deadline"`
		CategoryID  uint64     `json:"category_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(principal, services.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(principal, id)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates name, description and deadline of a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		Deadline    *time.Time `json:"deadline"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(principal, id, services.UpdateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(principal, id); err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SearchTasks filters tasks by the optional query parameters username, name,
// description, deadline and categoryId. Non-admins only see their own tasks.
func (h *TaskHandler) SearchTasks(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	filter, err := parseTaskFilter(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	tasks, err := h.taskService.SearchVisibleTasks(principal, filter)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// SuggestTasks drafts tasks from free text using AI. Nothing is persisted.
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	type SuggestTasksRequest struct {
		Text string `json:"text"`
	}

	var req SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, err := h.aiService.SuggestTasks(c.Request.Context(), req.Text)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskSuggestionDTOs(suggestions),
	})
}

func parseTaskFilter(c *gin.Context) (repository.TaskFilter, error) {
	var filter repository.TaskFilter

	if v, ok := c.GetQuery("username"); ok && v != "" {
		filter.Username = &v
	}
	if v, ok := c.GetQuery("name"); ok && v != "" {
		filter.Name = &v
	}
	if v, ok := c.GetQuery("description"); ok && v != "" {
		filter.Description = &v
	}
	if v, ok := c.GetQuery("deadline"); ok && strings.TrimSpace(v) != "" {
		deadline, err := utils.ParseDeadlineQuery(strings.TrimSpace(v))
		if err != nil {
			return filter, err
		}
		filter.Deadline = &deadline
	}
	if v, ok := c.GetQuery("categoryId"); ok && v != "" {
		categoryID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, &invalidParamError{name: "categoryId"}
		}
		filter.CategoryID = &categoryID
	}

	return filter, nil
}
