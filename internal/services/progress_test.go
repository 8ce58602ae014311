package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRecordAction_CompletesTaskAndGrantsOnce(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedXPTask("recycle-5", models.TaskTypeRecycle, 5, 100)

	// Recycle 3, then 2
	deltas, err := RecordAction(ctx, "u1", models.TaskTypeRecycle, 3)
	assert.NoError(t, err)
	assert.Len(t, deltas, 1)
	assert.Equal(t, 3, deltas[0].Count)
	assert.False(t, deltas[0].NewlyCompleted)

	deltas, err = RecordAction(ctx, "u1", models.TaskTypeRecycle, 2)
	assert.NoError(t, err)
	assert.Len(t, deltas, 1)
	assert.Equal(t, 5, deltas[0].Count)
	assert.True(t, deltas[0].NewlyCompleted)

	var progress models.Progress
	assert.NoError(t, database.DB.First(&progress, "user_id = ? AND task_id = ?", "u1", "recycle-5").Error)
	assert.Equal(t, 5, progress.Count)
	assert.True(t, progress.Completed)

	// Exactly one XP grant of 100
	var grants []models.Grant
	database.DB.Where("user_id = ?", "u1").Find(&grants)
	assert.Len(t, grants, 1)
	assert.Equal(t, models.GrantKindXP, grants[0].Kind)
	assert.Equal(t, 100, grants[0].XPAmount)

	var user models.User
	assert.NoError(t, database.DB.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, 100, user.XP)

	// Exactly one task-completed notification
	var notifications []models.Notification
	database.DB.Where("user_id = ? AND title = ?", "u1", "Task completed").Find(&notifications)
	assert.Len(t, notifications, 1)
}

func TestRecordAction_ClampsAtTarget(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedXPTask("recycle-5", models.TaskTypeRecycle, 5, 100)

	deltas, err := RecordAction(ctx, "u1", models.TaskTypeRecycle, 50)
	assert.NoError(t, err)
	assert.Len(t, deltas, 1)
	assert.Equal(t, 5, deltas[0].Count)
	assert.True(t, deltas[0].NewlyCompleted)
}

func TestRecordAction_DuplicateTriggersGrantOnce(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedXPTask("recycle-5", models.TaskTypeRecycle, 5, 100)

	// Overlapping submissions of quantity 3: the second drives the counter
	// to the clamped target and completes; the third must change nothing.
	_, err := RecordAction(ctx, "u1", models.TaskTypeRecycle, 3)
	assert.NoError(t, err)

	deltas, err := RecordAction(ctx, "u1", models.TaskTypeRecycle, 3)
	assert.NoError(t, err)
	assert.Len(t, deltas, 1)
	assert.Equal(t, 5, deltas[0].Count)
	assert.True(t, deltas[0].NewlyCompleted)

	deltas, err = RecordAction(ctx, "u1", models.TaskTypeRecycle, 3)
	assert.NoError(t, err)
	assert.Empty(t, deltas)

	var grants []models.Grant
	database.DB.Where("user_id = ?", "u1").Find(&grants)
	assert.Len(t, grants, 1)

	var user models.User
	assert.NoError(t, database.DB.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, 100, user.XP)
}

func TestRecordAction_NoMatchingTaskIsNoOp(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)

	deltas, err := RecordAction(ctx, "u1", models.TaskTypeDonate, 1)
	assert.NoError(t, err)
	assert.Empty(t, deltas)
}

func TestRecordAction_RejectsBadInput(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	_, err := RecordAction(ctx, "u1", models.TaskTypeRecycle, 0)
	assert.Error(t, err)

	_, err = RecordAction(ctx, "u1", models.TaskTypeLegacy, 1)
	assert.Error(t, err)
}

func TestRecordAction_MultipleMatchingTasks(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedXPTask("recycle-2", models.TaskTypeRecycle, 2, 50)
	seedXPTask("recycle-10", models.TaskTypeRecycle, 10, 200)

	deltas, err := RecordAction(ctx, "u1", models.TaskTypeRecycle, 3)
	assert.NoError(t, err)
	assert.Len(t, deltas, 2)

	byTask := map[string]ProgressDelta{}
	for _, d := range deltas {
		byTask[d.TaskID] = d
	}
	assert.Equal(t, 2, byTask["recycle-2"].Count)
	assert.True(t, byTask["recycle-2"].NewlyCompleted)
	assert.Equal(t, 3, byTask["recycle-10"].Count)
	assert.False(t, byTask["recycle-10"].NewlyCompleted)
}

func TestRecordAction_ConcurrentWritersCompleteOnce(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedXPTask("t1", models.TaskTypeRecycle, 5, 100)

	// Two devices record 3 units each at the same time: the counter
	// clamps at the target and only one writer owns the completion flip.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := RecordAction(ctx, "u1", models.TaskTypeRecycle, 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var row models.Progress
	assert.NoError(t, database.DB.First(&row, "user_id = ? AND task_id = ?", "u1", "t1").Error)
	assert.Equal(t, 5, row.Count)
	assert.True(t, row.Completed)

	var grants []models.Grant
	database.DB.Where("user_id = ? AND task_id = ?", "u1", "t1").Find(&grants)
	assert.Len(t, grants, 1)

	var user models.User
	assert.NoError(t, database.DB.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, 100, user.XP)
}

func TestOnTaskCompleted_ConcurrentTriggersGrantOnce(t *testing.T) {
	SetupTestDB()
	ctx := context.Background()

	seedUser("u1", 0)
	seedXPTask("t1", models.TaskTypeRecycle, 1, 100)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, OnTaskCompleted(ctx, "u1", "t1"))
		}()
	}
	wg.Wait()

	var grants []models.Grant
	database.DB.Where("user_id = ? AND task_id = ?", "u1", "t1").Find(&grants)
	assert.Len(t, grants, 1)

	var user models.User
	assert.NoError(t, database.DB.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, 100, user.XP)
}
