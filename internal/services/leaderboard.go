package services

import (
	"sync"
	"time"

	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/leveling"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
)

type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"userId"`
	DisplayName    string `json:"displayName"`
	XP             int    `json:"xp"`
	Level          int    `json:"level"`
	EquippedAvatar string `json:"equippedAvatar"`
	EquippedBorder string `json:"equippedBorder"`
	BadgeCount     int64  `json:"badgeCount"`
}

const (
	leaderboardSize     = 100
	leaderboardCacheKey = "leaderboard:xp"
	lbTTL               = 10 * time.Second
)

// In-memory fallback when redis is unavailable
type cachedLeaderboard struct {
	Entries   []LeaderboardEntry
	ExpiresAt time.Time
}

var (
	lbCache cachedLeaderboard
	lbMutex sync.RWMutex
)

// InvalidateLeaderboard clears the cached ranking (call after a grant lands).
func InvalidateLeaderboard() {
	lbMutex.Lock()
	lbCache = cachedLeaderboard{}
	lbMutex.Unlock()
	if database.Redis != nil {
		database.CacheInvalidate(leaderboardCacheKey)
	}
}

// GetLeaderboard returns the XP ranking, short-TTL cached. Level is derived
// from xp here, not read from the stored cache column.
func GetLeaderboard() ([]LeaderboardEntry, error) {
	// 1. Redis cache
	if database.Redis != nil {
		var cached []LeaderboardEntry
		if err := database.CacheGet(leaderboardCacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	// 2. In-memory cache
	lbMutex.RLock()
	if len(lbCache.Entries) > 0 && time.Now().Before(lbCache.ExpiresAt) {
		entries := lbCache.Entries
		lbMutex.RUnlock()
		return entries, nil
	}
	lbMutex.RUnlock()

	// 3. Compute
	var users []models.User
	if err := database.DB.
		Order("xp desc, created_at asc").
		Limit(leaderboardSize).
		Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		var badgeCount int64
		database.DB.Model(&models.UserBadge{}).Where("user_id = ?", u.ID).Count(&badgeCount)

		entries = append(entries, LeaderboardEntry{
			Rank:           i + 1,
			UserID:         u.ID,
			DisplayName:    u.DisplayName,
			XP:             u.XP,
			Level:          leveling.Level(u.XP),
			EquippedAvatar: u.EquippedAvatar,
			EquippedBorder: u.EquippedBorder,
			BadgeCount:     badgeCount,
		})
	}

	lbMutex.Lock()
	lbCache = cachedLeaderboard{Entries: entries, ExpiresAt: time.Now().Add(lbTTL)}
	lbMutex.Unlock()

	if database.Redis != nil {
		database.CacheSet(leaderboardCacheKey, entries, lbTTL)
	}

	return entries, nil
}
