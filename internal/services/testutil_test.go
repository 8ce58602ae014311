package services

import (
	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB initializes an in-memory SQLite DB for testing
func SetupTestDB() {
	db, _ := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	// One connection: every goroutine in a test sees the same in-memory
	// database and writes serialize instead of hitting SQLITE_BUSY.
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	database.DB = db
	database.DB.AutoMigrate(
		&models.User{},
		&models.Badge{},
		&models.Task{},
		&models.Progress{},
		&models.Grant{},
		&models.UserBadge{},
		&models.Notification{},
	)
}

func seedUser(id string, xp int) models.User {
	user := models.User{ID: id, DisplayName: id, Email: id + "@example.com", XP: xp, Level: 1}
	database.DB.Create(&user)
	return user
}

func seedXPTask(id string, taskType models.TaskType, target, xpReward int) models.Task {
	task := models.Task{
		ID:          id,
		Title:       "Task " + id,
		Description: "test task",
		Type:        taskType,
		Target:      target,
		RewardType:  models.RewardTypeXP,
		XPReward:    xpReward,
	}
	database.DB.Create(&task)
	return task
}

func seedBadgeTask(id string, taskType models.TaskType, target int, badgeID string, xpReward int) models.Task {
	badge := models.Badge{ID: badgeID, Name: badgeID, Description: "test badge"}
	database.DB.Create(&badge)
	task := models.Task{
		ID:          id,
		Title:       "Task " + id,
		Description: "test task",
		Type:        taskType,
		Target:      target,
		RewardType:  models.RewardTypeBadge,
		BadgeID:     &badge.ID,
		XPReward:    xpReward,
	}
	database.DB.Create(&task)
	return task
}
