package utils

import (
	"fmt"
	"time"

	"github.com/yukikurage/todo-api/internal/constants"
)

// ParseDeadlineQuery parses the deadline search parameter. Values without a
// zone are read as UTC.
func ParseDeadlineQuery(value string) (time.Time, error) {
	for _, layout := range constants.DeadlineQueryLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid deadline %q", value)
}
