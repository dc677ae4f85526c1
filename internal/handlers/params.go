package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
)

type invalidParamError struct {
	name string
}

func (e *invalidParamError) Error() string {
	return "invalid " + e.name
}

// parseIDParam reads the :id path parameter, answering 400 when it is not a
// positive integer.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}
