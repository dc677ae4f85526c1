package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/todo-api/internal/dto"
	"github.com/yukikurage/todo-api/internal/services"
)

// TaskHandlerTestSuite drives the task endpoints through the full router
type TaskHandlerTestSuite struct {
	suite.Suite
	env        *apiTestEnv
	workID     uint64
	personalID uint64
}

func (s *TaskHandlerTestSuite) SetupTest() {
	s.env = setupAPITestEnv(s.T(), nil)
	s.env.createAdmin(s.T(), "admin")
	s.env.signup(s.T(), "user1")
	s.env.signup(s.T(), "user2")
	s.workID = s.env.createCategory(s.T(), "Work")
	s.personalID = s.env.createCategory(s.T(), "Personal")
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}

func (s *TaskHandlerTestSuite) createTask(username, name string, deadline time.Time, categoryID uint64) dto.TaskDTO {
	w := s.env.request(s.T(), http.MethodPost, "/api/tasks", username, map[string]any{
		"name":        name,
		"description": "Test Description",
		"deadline":    deadline.Format(time.RFC3339),
		"category_id": categoryID,
	})
	assertStatus(s.T(), w, http.StatusCreated)
	return decode[dto.TaskDTO](s.T(), w)
}

func taskURL(id uint64) string {
	return fmt.Sprintf("/api/tasks/%d", id)
}

func (s *TaskHandlerTestSuite) TestCreateTask_Success() {
	task := s.createTask("user1", "Complete Project", testNow.Add(24*time.Hour), s.workID)

	s.NotZero(task.ID)
	s.Equal("Complete Project", task.Name)
	s.Equal(s.workID, task.CategoryID)
	s.True(task.Deadline.Equal(testNow.Add(24 * time.Hour)))
}

func (s *TaskHandlerTestSuite) TestCreateTask_ValidationErrors() {
	cases := map[string]map[string]any{
		"past deadline": {
			"name": "Late", "deadline": testNow.Add(-time.Hour).Format(time.RFC3339), "category_id": s.workID,
		},
		"missing deadline": {
			"name": "No deadline", "category_id": s.workID,
		},
		"missing name": {
			"deadline": testNow.Add(time.Hour).Format(time.RFC3339), "category_id": s.workID,
		},
		"unknown category": {
			"name": "Orphan", "deadline": testNow.Add(time.Hour).Format(time.RFC3339), "category_id": 999,
		},
		"malformed deadline": {
			"name": "Bad", "deadline": "tomorrow", "category_id": s.workID,
		},
	}

	for name, body := range cases {
		s.Run(name, func() {
			w := s.env.request(s.T(), http.MethodPost, "/api/tasks", "user1", body)
			assertStatus(s.T(), w, http.StatusBadRequest)
		})
	}
}

func (s *TaskHandlerTestSuite) TestCreateTask_Unauthenticated() {
	w := s.env.request(s.T(), http.MethodPost, "/api/tasks", "", map[string]any{"name": "x"})
	assertStatus(s.T(), w, http.StatusUnauthorized)
}

func (s *TaskHandlerTestSuite) TestGetTask_Scenario() {
	task := s.createTask("user1", "Complete Project", testNow.Add(24*time.Hour), s.workID)

	w := s.env.request(s.T(), http.MethodGet, taskURL(task.ID), "admin", nil)
	assertStatus(s.T(), w, http.StatusOK)

	w = s.env.request(s.T(), http.MethodGet, taskURL(task.ID), "user1", nil)
	assertStatus(s.T(), w, http.StatusOK)
	s.Equal("Complete Project", decode[dto.TaskDTO](s.T(), w).Name)

	w = s.env.request(s.T(), http.MethodGet, taskURL(task.ID), "user2", nil)
	assertStatus(s.T(), w, http.StatusForbidden)

	w = s.env.request(s.T(), http.MethodGet, taskURL(9999), "admin", nil)
	assertStatus(s.T(), w, http.StatusNotFound)

	w = s.env.request(s.T(), http.MethodGet, "/api/tasks/abc", "admin", nil)
	assertStatus(s.T(), w, http.StatusBadRequest)
}

func (s *TaskHandlerTestSuite) TestUpdateTask() {
	task := s.createTask("user1", "Complete Project", testNow.Add(24*time.Hour), s.workID)

	w := s.env.request(s.T(), http.MethodPut, taskURL(task.ID), "user1", map[string]any{
		"name":     "Complete Project v2",
		"deadline": testNow.Add(48 * time.Hour).Format(time.RFC3339),
	})
	assertStatus(s.T(), w, http.StatusOK)
	updated := decode[dto.TaskDTO](s.T(), w)
	s.Equal("Complete Project v2", updated.Name)
	s.Equal("Test Description", updated.Description)

	w = s.env.request(s.T(), http.MethodPut, taskURL(task.ID), "user2", map[string]any{"name": "hijacked"})
	assertStatus(s.T(), w, http.StatusForbidden)

	w = s.env.request(s.T(), http.MethodPut, taskURL(task.ID), "user1", map[string]any{
		"deadline": testNow.Add(-time.Hour).Format(time.RFC3339),
	})
	assertStatus(s.T(), w, http.StatusBadRequest)

	w = s.env.request(s.T(), http.MethodPut, taskURL(task.ID), "admin", map[string]any{"description": "checked"})
	assertStatus(s.T(), w, http.StatusOK)
	s.Equal("checked", decode[dto.TaskDTO](s.T(), w).Description)
}

func (s *TaskHandlerTestSuite) TestDeleteTask() {
	task := s.createTask("user1", "Complete Project", testNow.Add(24*time.Hour), s.workID)

	w := s.env.request(s.T(), http.MethodDelete, taskURL(task.ID), "user2", nil)
	assertStatus(s.T(), w, http.StatusForbidden)

	w = s.env.request(s.T(), http.MethodDelete, taskURL(task.ID), "user1", nil)
	assertStatus(s.T(), w, http.StatusNoContent)

	w = s.env.request(s.T(), http.MethodGet, taskURL(task.ID), "user1", nil)
	assertStatus(s.T(), w, http.StatusNotFound)

	w = s.env.request(s.T(), http.MethodDelete, taskURL(task.ID), "admin", nil)
	assertStatus(s.T(), w, http.StatusNotFound)
}

func (s *TaskHandlerTestSuite) search(username string, query url.Values) dto.TaskListResponse {
	w := s.env.request(s.T(), http.MethodGet, "/api/tasks/search?"+query.Encode(), username, nil)
	assertStatus(s.T(), w, http.StatusOK)
	return decode[dto.TaskListResponse](s.T(), w)
}

func names(response dto.TaskListResponse) []string {
	result := make([]string, 0, len(response.Tasks))
	for _, task := range response.Tasks {
		result = append(result, task.Name)
	}
	return result
}

func (s *TaskHandlerTestSuite) TestSearchTasks() {
	day := time.Date(2030, 3, 15, 0, 0, 0, 0, time.UTC)
	s.createTask("user1", "Complete Project", day.Add(9*time.Hour), s.workID)
	s.createTask("user1", "Buy milk", day.Add(18*time.Hour), s.personalID)
	s.createTask("user2", "Project review", day.AddDate(0, 0, 1), s.workID)

	all := s.search("admin", url.Values{})
	s.Equal(3, all.Count)

	s.ElementsMatch([]string{"Complete Project", "Project review"}, names(s.search("admin", url.Values{"name": {"proj"}})))
	s.ElementsMatch([]string{"Project review"}, names(s.search("admin", url.Values{"username": {"user2"}})))
	s.ElementsMatch([]string{"Complete Project", "Buy milk"}, names(s.search("admin", url.Values{"deadline": {"2030-03-15"}})))
	s.ElementsMatch([]string{"Complete Project", "Buy milk"}, names(s.search("admin", url.Values{"deadline": {"2030-03-15T23:00:00"}})))
	s.ElementsMatch([]string{"Buy milk"}, names(s.search("admin", url.Values{"categoryId": {fmt.Sprint(s.personalID)}})))
	s.Empty(names(s.search("admin", url.Values{"name": {"milk"}, "categoryId": {fmt.Sprint(s.workID)}})))

	// Non-admins only see their own tasks.
	s.ElementsMatch([]string{"Complete Project", "Buy milk"}, names(s.search("user1", url.Values{})))
	s.ElementsMatch([]string{"Complete Project"}, names(s.search("user1", url.Values{"name": {"proj"}})))

	w := s.env.request(s.T(), http.MethodGet, "/api/tasks/search?username=user2", "user1", nil)
	assertStatus(s.T(), w, http.StatusForbidden)

	w = s.env.request(s.T(), http.MethodGet, "/api/tasks/search?deadline=someday", "admin", nil)
	assertStatus(s.T(), w, http.StatusBadRequest)

	w = s.env.request(s.T(), http.MethodGet, "/api/tasks/search?categoryId=-1", "admin", nil)
	assertStatus(s.T(), w, http.StatusBadRequest)
}

func (s *TaskHandlerTestSuite) TestSearchTasks_EmptyResult() {
	response := s.search("user2", url.Values{})
	s.Equal(0, response.Count)
	s.NotNil(response.Tasks)
}

func (s *TaskHandlerTestSuite) TestSuggestTasks_NotConfigured() {
	w := s.env.request(s.T(), http.MethodPost, "/api/tasks/suggest", "user1", map[string]string{"text": "buy milk"})
	assertStatus(s.T(), w, http.StatusServiceUnavailable)
}

func (s *TaskHandlerTestSuite) TestSuggestTasks() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: `{"tasks": [{"name": "Buy milk", "description": "2 liters", "deadline": null}]}`,
				}},
			},
		})
	}))
	s.T().Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	s.env = setupAPITestEnv(s.T(), services.NewAIServiceWithConfig(cfg, ""))
	s.env.signup(s.T(), "user1")

	w := s.env.request(s.T(), http.MethodPost, "/api/tasks/suggest", "user1", map[string]string{"text": "remember to buy milk"})
	assertStatus(s.T(), w, http.StatusOK)

	response := decode[map[string][]dto.TaskSuggestionDTO](s.T(), w)
	s.Require().Len(response["tasks"], 1)
	s.Equal("Buy milk", response["tasks"][0].Name)
	s.Nil(response["tasks"][0].Deadline)

	w = s.env.request(s.T(), http.MethodPost, "/api/tasks/suggest", "user1", map[string]string{"text": " "})
	assertStatus(s.T(), w, http.StatusBadRequest)
}
