package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
	"github.com/gin-gonic/gin"
)

// respondError maps engine errors to HTTP responses. AppErrors carry their
// own status; anything else is an internal error.
func respondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message, "kind": appErr.Kind})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}

// currentUser pulls the gateway-established identity from the context.
func currentUser(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID.(string), true
}
