package services

import (
	"context"

	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/dnachavez/ecowaste-sub001/internal/realtime"
	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
	"github.com/dnachavez/ecowaste-sub001/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressDelta describes the effect of one recorded action on one task.
type ProgressDelta struct {
	TaskID         string `json:"taskId"`
	Count          int    `json:"count"`
	Target         int    `json:"target"`
	NewlyCompleted bool   `json:"newlyCompleted"`
}

// RecordAction applies a qualifying user action to every matching task that
// the user has not yet completed. Counts are clamped at the task target and
// the completion flip is a conditional write, so two devices racing on the
// same action can drive a task to completed exactly once.
//
// An action type matching no active task is a no-op, not a failure.
func RecordAction(ctx context.Context, userID string, actionType models.TaskType, quantity int) ([]ProgressDelta, error) {
	if quantity < 1 {
		return nil, errors.Validation("Quantity must be at least 1")
	}
	if !models.ValidNewTaskType(actionType) {
		return nil, errors.Validation("Unknown action type: " + string(actionType))
	}

	var tasks []models.Task
	if err := database.DB.WithContext(ctx).Where("type = ?", actionType).Find(&tasks).Error; err != nil {
		return nil, errors.Transport("Failed to load tasks")
	}
	if len(tasks) == 0 {
		// NotFound at the store level, no-op to the caller.
		return nil, nil
	}

	deltas := make([]ProgressDelta, 0, len(tasks))
	var completedTasks []string

	for _, task := range tasks {
		delta, err := applyProgress(ctx, userID, task, quantity)
		if err != nil {
			return nil, err
		}
		if delta == nil {
			continue // already completed earlier
		}
		deltas = append(deltas, *delta)
		if delta.NewlyCompleted {
			completedTasks = append(completedTasks, task.ID)
		}
	}

	if len(deltas) > 0 {
		publishProgress(userID)
	}

	for _, taskID := range completedTasks {
		if err := OnTaskCompleted(ctx, userID, taskID); err != nil {
			// The progress write stands; the reward path reports its
			// own failure and stays idempotent for the retry.
			logger.Error().Err(err).
				Str("userId", userID).
				Str("taskId", taskID).
				Msg("reward grant failed after completion")
		}
	}

	return deltas, nil
}

// applyProgress increments one (user, task) counter. Every statement is an
// atomic conditional write against the store; there is no read-then-write on
// the counter itself.
func applyProgress(ctx context.Context, userID string, task models.Task, quantity int) (*ProgressDelta, error) {
	var newlyCompleted bool

	err := realtime.WithRetry(writeRetries(), func() error {
		newlyCompleted = false
		return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Ensure the row exists; first qualifying action creates it.
			seed := models.Progress{UserID: userID, TaskID: task.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
				return err
			}

			// Atomic increment, skipped once completed.
			if err := tx.Model(&models.Progress{}).
				Where("user_id = ? AND task_id = ? AND completed = ?", userID, task.ID, false).
				UpdateColumn("count", gorm.Expr("count + ?", quantity)).Error; err != nil {
				return err
			}

			// Clamp at target.
			if err := tx.Model(&models.Progress{}).
				Where("user_id = ? AND task_id = ? AND count > ?", userID, task.ID, task.Target).
				UpdateColumn("count", task.Target).Error; err != nil {
				return err
			}

			// Completion transition. The completed=false guard makes this
			// a compare-and-set: of any number of concurrent writers, one
			// sees RowsAffected=1 and owns the reward trigger.
			res := tx.Model(&models.Progress{}).
				Where("user_id = ? AND task_id = ? AND completed = ? AND count >= ?", userID, task.ID, false, task.Target).
				UpdateColumn("completed", true)
			if res.Error != nil {
				return res.Error
			}
			newlyCompleted = res.RowsAffected == 1
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	var row models.Progress
	if err := database.DB.WithContext(ctx).
		First(&row, "user_id = ? AND task_id = ?", userID, task.ID).Error; err != nil {
		return nil, errors.Transport("Failed to read progress")
	}

	// A row completed before this action was never incremented (the
	// completed=false guard skipped it), so it contributes no delta.
	if row.Completed && !newlyCompleted {
		return nil, nil
	}

	return &ProgressDelta{
		TaskID:         task.ID,
		Count:          row.Count,
		Target:         task.Target,
		NewlyCompleted: newlyCompleted,
	}, nil
}

// GetProgress returns a user's progress rows with their task definitions.
func GetProgress(ctx context.Context, userID string) ([]models.Progress, error) {
	var rows []models.Progress
	if err := database.DB.WithContext(ctx).Preload("Task").
		Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, errors.Transport("Failed to load progress")
	}
	return rows, nil
}
