package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/todo-api/internal/constants"
)

var (
	ErrSuggestionsDisabled    = errors.New("task suggestions are not configured")
	ErrSuggestionTextRequired = kindError(ErrValidation, "text is required")
)

// AIService drafts tasks from free text. Drafts are never persisted.
type AIService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

// TaskSuggestion is a draft task extracted from text
type TaskSuggestion struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

type suggestionEnvelope struct {
	Tasks []TaskSuggestion `json:"tasks"`
}

func NewAIService(apiKey, model string) *AIService {
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewAIServiceWithConfig allows pointing the client at another endpoint.
func NewAIServiceWithConfig(cfg openai.ClientConfig, model string) *AIService {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		now:    time.Now,
	}
}

// SuggestTasks asks the model for tasks mentioned in text. Suggestions
// without a name are dropped and deadlines that already passed are cleared.
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]TaskSuggestion, error) {
	if s == nil || s.client == nil {
		return nil, ErrSuggestionsDisabled
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrSuggestionTextRequired
	}

	now := s.now()
	prompt := fmt.Sprintf(`You extract todo items from text.

Current time: %s

Text:
%s

Answer with a JSON object of the form:
{"tasks": [{"name": "short task name", "description": "details", "deadline": "RFC3339 timestamp or null"}]}

Rules:
- Return {"tasks": []} when the text contains no task
- Convert relative dates ("tomorrow", "next week") to absolute timestamps
- Answer with JSON only`, now.Format(time.RFC3339), text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	var envelope suggestionEnvelope
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	suggestions := make([]TaskSuggestion, 0, len(envelope.Tasks))
	for _, suggestion := range envelope.Tasks {
		suggestion.Name = strings.TrimSpace(suggestion.Name)
		if suggestion.Name == "" {
			continue
		}
		if suggestion.Deadline != nil && !suggestion.Deadline.After(now) {
			suggestion.Deadline = nil
		}
		suggestions = append(suggestions, suggestion)
		if len(suggestions) == constants.MaxSuggestedTasks {
			break
		}
	}

	return suggestions, nil
}
