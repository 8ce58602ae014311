package handlers

import (
	"net/http"

	"github.com/dnachavez/ecowaste-sub001/internal/services"
	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
	"github.com/gin-gonic/gin"
)

// CreateBadge POST /admin/badges
// The admin console's badge creation endpoint lands here.
func CreateBadge(c *gin.Context) {
	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.Validation(err.Error()))
		return
	}

	badge, err := services.CreateBadge(input.Name, input.Description, input.Icon)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"badge": badge})
}

// ListBadges GET /badges
func ListBadges(c *gin.Context) {
	badges, err := services.ListBadges()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}
