package main

import (
	"log"

	"github.com/dnachavez/ecowaste-sub001/internal/config"
	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/google/uuid"
)

// Seeds the catalog with a starter set of badges and tasks, and a fallback
// admin so the console has someone to log in as.
func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("🔄 Running migrations (just in case)...")
	database.DB.AutoMigrate(
		&models.User{},
		&models.Badge{},
		&models.Task{},
		&models.Progress{},
		&models.Grant{},
		&models.UserBadge{},
		&models.Notification{},
	)

	log.Println("👤 Fetching Admin User...")
	var admin models.User
	if err := database.DB.Where("role = ?", "ADMIN").First(&admin).Error; err != nil {
		log.Println("⚠️ No ADMIN found. Creating a fallback admin...")
		admin = models.User{
			ID:          uuid.New().String(),
			DisplayName: "Administrator",
			Email:       "admin@ecowaste.app",
			Role:        models.RoleAdmin,
		}
		database.DB.Create(&admin)
	}

	log.Println("🏅 Seeding badges...")
	badges := []models.Badge{
		{ID: "first-steps", Name: "First Steps", Description: "Recycle your first item", Icon: "Footprints"},
		{ID: "green-thumb", Name: "Green Thumb", Description: "Join a community project", Icon: "Sprout"},
		{ID: "generous-heart", Name: "Generous Heart", Description: "Make ten donations", Icon: "HeartHandshake"},
		{ID: "eco-warrior", Name: "Eco Warrior", Description: "Recycle one hundred items", Icon: "Shield"},
	}
	for _, b := range badges {
		if err := database.DB.FirstOrCreate(&b, models.Badge{ID: b.ID}).Error; err != nil {
			log.Printf("❌ Failed to seed badge %s: %v", b.ID, err)
		}
	}

	log.Println("📋 Seeding tasks...")
	firstSteps := "first-steps"
	greenThumb := "green-thumb"
	generousHeart := "generous-heart"
	ecoWarrior := "eco-warrior"
	tasks := []models.Task{
		{ID: "recycle-1", Title: "Getting Started", Description: "Recycle your first item", Type: models.TaskTypeRecycle, Target: 1, RewardType: models.RewardTypeBadge, BadgeID: &firstSteps, XPReward: 50},
		{ID: "recycle-25", Title: "Quarter Century", Description: "Recycle 25 items", Type: models.TaskTypeRecycle, Target: 25, RewardType: models.RewardTypeXP, XPReward: 250},
		{ID: "recycle-100", Title: "Centurion", Description: "Recycle 100 items", Type: models.TaskTypeRecycle, Target: 100, RewardType: models.RewardTypeBadge, BadgeID: &ecoWarrior, XPReward: 1000},
		{ID: "donate-1", Title: "First Donation", Description: "Donate an item", Type: models.TaskTypeDonate, Target: 1, RewardType: models.RewardTypeXP, XPReward: 100},
		{ID: "donate-10", Title: "Serial Giver", Description: "Donate ten items", Type: models.TaskTypeDonate, Target: 10, RewardType: models.RewardTypeBadge, BadgeID: &generousHeart, XPReward: 500},
		{ID: "project-1", Title: "Team Player", Description: "Join a community project", Type: models.TaskTypeProject, Target: 1, RewardType: models.RewardTypeBadge, BadgeID: &greenThumb},
	}
	for _, t := range tasks {
		if err := database.DB.FirstOrCreate(&t, models.Task{ID: t.ID}).Error; err != nil {
			log.Printf("❌ Failed to seed task %s: %v", t.ID, err)
		}
	}

	log.Println("✅ Seeding complete")
}
