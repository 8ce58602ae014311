package handlers

import (
	"net/http"
	"time"

	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/dnachavez/ecowaste-sub001/internal/services"
	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
	"github.com/dnachavez/ecowaste-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
)

// actionWindowLimit caps qualifying actions per user per minute.
const actionWindowLimit = 30

// RecordAction POST /actions
// Body: {"type": "RECYCLE", "quantity": 3}
func RecordAction(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Type     models.TaskType `json:"type" binding:"required"`
		Quantity int             `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.Validation(err.Error()))
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	// Per-user window on top of the IP limiter; skipped when redis is down.
	if database.Redis != nil {
		if allowed, err := database.CheckRateLimit(userID, actionWindowLimit, time.Minute); err == nil && !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many actions, slow down"})
			return
		}
	}

	deltas, err := services.RecordAction(c.Request.Context(), userID, input.Type, input.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.ActionCount.WithLabelValues(string(input.Type)).Inc()

	// No matching task is a no-op, not a failure.
	c.JSON(http.StatusOK, gin.H{"deltas": deltas})
}

// GetProgress GET /progress
func GetProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	rows, err := services.GetProgress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": rows})
}

// GetGrants GET /grants
func GetGrants(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	grants, err := services.GetGrants(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grants": grants})
}
