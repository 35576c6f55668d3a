package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/quitplan/internal/ports/primary"
)

// writeError maps service errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	var (
		verr       *primary.ValidationError
		denied     *primary.DeniedError
		incomplete *primary.IncompleteTasksError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "rule": verr.Rule})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusConflict, gin.H{
			"denied":    true,
			"code":      "incomplete_tasks",
			"reason":    incomplete.Error(),
			"stage_id":  incomplete.StageID,
			"percent":   incomplete.Percent,
			"remaining": incomplete.Remaining,
		})
	case errors.As(err, &denied):
		c.JSON(http.StatusConflict, gin.H{"denied": true, "code": denied.Code, "reason": denied.Reason})
	case errors.Is(err, primary.ErrConflict):
		slog.WarnContext(c.Request.Context(), "request conflict", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, primary.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, primary.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
