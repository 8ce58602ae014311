package services

import (
	"context"
	"testing"

	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestOnTaskCompleted_Idempotent(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedXPTask("t1", models.TaskTypeRecycle, 1, 100)

	// Duplicate triggers: only the first pays out.
	for i := 0; i < 5; i++ {
		assert.NoError(t, OnTaskCompleted(ctx, "u1", "t1"))
	}

	var grants []models.Grant
	database.DB.Where("user_id = ? AND task_id = ?", "u1", "t1").Find(&grants)
	assert.Len(t, grants, 1)

	var user models.User
	assert.NoError(t, database.DB.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, 100, user.XP)

	var notifications []models.Notification
	database.DB.Where("user_id = ? AND title = ?", "u1", "Task completed").Find(&notifications)
	assert.Len(t, notifications, 1)
}

func TestOnTaskCompleted_BadgeWithXP(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedBadgeTask("t1", models.TaskTypeProject, 1, "green-thumb", 150)

	assert.NoError(t, OnTaskCompleted(ctx, "u1", "t1"))

	// Badge task with xpReward > 0 applies both effects
	var grants []models.Grant
	database.DB.Where("user_id = ?", "u1").Find(&grants)
	assert.Len(t, grants, 2)

	var user models.User
	assert.NoError(t, database.DB.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, 150, user.XP)

	var collected []models.UserBadge
	database.DB.Where("user_id = ?", "u1").Find(&collected)
	assert.Len(t, collected, 1)
	assert.Equal(t, "green-thumb", collected[0].BadgeID)

	// Replay: neither effect applies twice
	assert.NoError(t, OnTaskCompleted(ctx, "u1", "t1"))
	database.DB.Where("user_id = ?", "u1").Find(&grants)
	assert.Len(t, grants, 2)
	assert.NoError(t, database.DB.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, 150, user.XP)
}

func TestOnTaskCompleted_BadgeOnlyGrantsNoXP(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedBadgeTask("t1", models.TaskTypeDonate, 1, "generous-heart", 0)

	assert.NoError(t, OnTaskCompleted(ctx, "u1", "t1"))

	var grants []models.Grant
	database.DB.Where("user_id = ?", "u1").Find(&grants)
	assert.Len(t, grants, 1)
	assert.Equal(t, models.GrantKindBadge, grants[0].Kind)

	var user models.User
	assert.NoError(t, database.DB.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, 0, user.XP)
}

func TestOnTaskCompleted_LevelUpNotification(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	// 60 xp away from the first threshold (100)
	seedUser("u1", 60)
	seedXPTask("t1", models.TaskTypeRecycle, 1, 50)

	assert.NoError(t, OnTaskCompleted(ctx, "u1", "t1"))

	var user models.User
	assert.NoError(t, database.DB.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, 110, user.XP)
	assert.Equal(t, 2, user.Level)

	var levelUps []models.Notification
	database.DB.Where("user_id = ? AND title = ?", "u1", "Level up!").Find(&levelUps)
	assert.Len(t, levelUps, 1)
}

func TestOnTaskCompleted_NoLevelUpBelowThreshold(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedXPTask("t1", models.TaskTypeRecycle, 1, 99)

	assert.NoError(t, OnTaskCompleted(ctx, "u1", "t1"))

	var user models.User
	assert.NoError(t, database.DB.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, 1, user.Level)

	var levelUps []models.Notification
	database.DB.Where("user_id = ? AND title = ?", "u1", "Level up!").Find(&levelUps)
	assert.Empty(t, levelUps)
}

func TestOnTaskCompleted_UnknownTask(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	assert.Error(t, OnTaskCompleted(ctx, "u1", "missing"))
}
