package constants

// Session and context keys
const (
	SessionCookieName   = "todo_session"
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
	HeaderRequestID     = "X-Request-ID"
)

// Account constraints
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
)

// Task constraints
const (
	MaxTaskNameLength        = 100
	MaxTaskDescriptionLength = 500
)

// Category constraints
const (
	MinCategoryNameLength        = 2
	MaxCategoryNameLength        = 50
	MaxCategoryDescriptionLength = 255
)

// MaxSuggestedTasks caps how many drafts a single suggestion request may return
const MaxSuggestedTasks = 20

// Accepted layouts for the deadline search parameter, tried in order
var DeadlineQueryLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
}
