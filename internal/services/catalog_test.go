package services

import (
	"context"
	"testing"

	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCreateTask_Validation(t *testing.T) {
	SetupTestDB()

	cases := []struct {
		name  string
		input TaskInput
	}{
		{"empty title", TaskInput{Description: "d", Type: models.TaskTypeRecycle, Target: 1, RewardType: models.RewardTypeXP}},
		{"empty description", TaskInput{Title: "t", Type: models.TaskTypeRecycle, Target: 1, RewardType: models.RewardTypeXP}},
		{"zero target", TaskInput{Title: "t", Description: "d", Type: models.TaskTypeRecycle, Target: 0, RewardType: models.RewardTypeXP}},
		{"legacy type", TaskInput{Title: "t", Description: "d", Type: models.TaskTypeLegacy, Target: 1, RewardType: models.RewardTypeXP}},
		{"badge without badgeId", TaskInput{Title: "t", Description: "d", Type: models.TaskTypeRecycle, Target: 1, RewardType: models.RewardTypeBadge}},
		{"negative xp", TaskInput{Title: "t", Description: "d", Type: models.TaskTypeRecycle, Target: 1, RewardType: models.RewardTypeXP, XPReward: -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateTask(tc.input)
			assert.ErrorIs(t, err, errors.ErrValidation)
		})
	}
}

func TestCreateTask_BadgeMustExist(t *testing.T) {
	SetupTestDB()

	missing := "no-such-badge"
	_, err := CreateTask(TaskInput{
		Title: "t", Description: "d",
		Type: models.TaskTypeRecycle, Target: 1,
		RewardType: models.RewardTypeBadge, BadgeID: &missing,
	})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestCreateTask_Success(t *testing.T) {
	SetupTestDB()

	task, err := CreateTask(TaskInput{
		Title:       "  Recycle five  ",
		Description: "Recycle five items",
		Type:        models.TaskTypeRecycle,
		Target:      5,
		RewardType:  models.RewardTypeXP,
		XPReward:    100,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Recycle five", task.Title)
}

func TestUpdateTask_FrozenAfterGrant(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedXPTask("t1", models.TaskTypeRecycle, 1, 100)
	assert.NoError(t, OnTaskCompleted(ctx, "u1", "t1"))

	newTarget := 10
	_, err := UpdateTask("t1", TaskPatch{Target: &newTarget})
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestUpdateTask_AppliesPatch(t *testing.T) {
	SetupTestDB()

	seedXPTask("t1", models.TaskTypeRecycle, 5, 100)

	title := "Renamed"
	task, err := UpdateTask("t1", TaskPatch{Title: &title})
	assert.NoError(t, err)
	assert.NotNil(t, task)

	_, err = UpdateTask("missing", TaskPatch{Title: &title})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestDeleteTask_RemovesProgress(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedXPTask("t1", models.TaskTypeRecycle, 5, 100)
	_, err := RecordAction(ctx, "u1", models.TaskTypeRecycle, 2)
	assert.NoError(t, err)

	assert.NoError(t, DeleteTask("t1"))

	rows, err := GetProgress(ctx, "u1")
	assert.NoError(t, err)
	assert.Empty(t, rows)

	assert.ErrorIs(t, DeleteTask("t1"), errors.ErrNotFound)
}

func TestCreateBadge_Validation(t *testing.T) {
	SetupTestDB()

	_, err := CreateBadge("", "desc", "Leaf")
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = CreateBadge("name", "", "Leaf")
	assert.ErrorIs(t, err, errors.ErrValidation)

	badge, err := CreateBadge("Eco Hero", "Earned by heroes", "Leaf")
	assert.NoError(t, err)
	assert.NotEmpty(t, badge.ID)
}

func TestCreateTask_BadgeCheckFailureIsTransport(t *testing.T) {
	SetupTestDB()

	badgeID := "owned"
	database.DB.Create(&models.Badge{ID: badgeID, Name: badgeID, Description: "d"})
	assert.NoError(t, database.DB.Migrator().DropTable(&models.Badge{}))

	_, err := CreateTask(TaskInput{
		Title: "t", Description: "d",
		Type: models.TaskTypeRecycle, Target: 1,
		RewardType: models.RewardTypeBadge, BadgeID: &badgeID,
	})
	assert.ErrorIs(t, err, errors.ErrTransport)
	assert.NotErrorIs(t, err, errors.ErrNotFound)
}

func TestUpdateTask_GrantCheckFailureIsTransport(t *testing.T) {
	SetupTestDB()

	seedXPTask("t1", models.TaskTypeRecycle, 5, 50)
	assert.NoError(t, database.DB.Migrator().DropTable(&models.Grant{}))

	// A failed freeze check must not let the patch through.
	title := "rewritten"
	_, err := UpdateTask("t1", TaskPatch{Title: &title})
	assert.ErrorIs(t, err, errors.ErrTransport)
}
