package handlers

import (
	"net/http"

	"github.com/dnachavez/ecowaste-sub001/internal/leveling"
	"github.com/dnachavez/ecowaste-sub001/internal/services"
	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
	"github.com/gin-gonic/gin"
)

// GetGameState GET /me/game-state
func GetGameState(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, unlocked, err := services.GetGameState(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	// 0 means no further level to chase.
	nextLevelXP := 0
	if user.Level < leveling.MaxLevel() {
		nextLevelXP = leveling.XPForLevel(user.Level + 1)
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"unlocked":    unlocked,
		"nextLevelXp": nextLevelXP,
		"maxLevel":    leveling.MaxLevel(),
	})
}

// Equip PUT /me/equip
// Body: {"slot": "avatar", "cosmeticId": "phoenix"}
func Equip(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Slot       leveling.Slot `json:"slot" binding:"required"`
		CosmeticID string        `json:"cosmeticId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.Validation(err.Error()))
		return
	}

	if err := services.Equip(c.Request.Context(), userID, input.Slot, input.CosmeticID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Equipped"})
}

// GetCosmeticCatalog GET /cosmetics
// Returns the static reward catalog plus the caller's unlocked set.
func GetCosmeticCatalog(c *gin.Context) {
	catalog := leveling.Catalog()

	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusOK, gin.H{"cosmetics": catalog})
		return
	}

	_, unlocked, err := services.GetGameState(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"cosmetics": catalog})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cosmetics": catalog, "unlocked": unlocked})
}

// GetLeaderboard GET /leaderboard
func GetLeaderboard(c *gin.Context) {
	entries, err := services.GetLeaderboard()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
