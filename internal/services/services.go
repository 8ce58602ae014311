package services

import (
	"github.com/dnachavez/ecowaste-sub001/internal/config"
	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/dnachavez/ecowaste-sub001/internal/realtime"
)

func writeRetries() int {
	if config.AppConfig == nil || config.AppConfig.WriteRetries < 1 {
		return 3
	}
	return config.AppConfig.WriteRetries
}

// publishUser pushes the full user record (game state included) to the
// users/{id} path.
func publishUser(userID string) {
	var user models.User
	if err := database.DB.Preload("Badges.Badge").First(&user, "id = ?", userID).Error; err != nil {
		return
	}
	realtime.Bus.Publish("users/"+userID, user)
}

// publishProgress pushes the full progress set for a user.
func publishProgress(userID string) {
	var rows []models.Progress
	if err := database.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return
	}
	realtime.Bus.Publish("progress/"+userID, rows)
}
