package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/leveling"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/dnachavez/ecowaste-sub001/internal/realtime"
	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
	"github.com/dnachavez/ecowaste-sub001/pkg/logger"
	"github.com/dnachavez/ecowaste-sub001/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OnTaskCompleted pays out the reward for a (user, task) completion. The
// grant row's composite key makes the payout idempotent: duplicate triggers
// from concurrent completions insert zero rows and apply nothing. A trigger
// that loses the insert race retries the existence check exactly once and
// then no-ops.
func OnTaskCompleted(ctx context.Context, userID, taskID string) error {
	var task models.Task
	if err := database.DB.WithContext(ctx).First(&task, "id = ?", taskID).Error; err != nil {
		return errors.NotFound("Task not found")
	}

	granted := false

	if task.RewardType == models.RewardTypeXP || task.XPReward > 0 {
		ok, err := grantXP(ctx, userID, task)
		if err != nil {
			return err
		}
		granted = granted || ok
	}

	if task.RewardType == models.RewardTypeBadge {
		ok, err := grantBadge(ctx, userID, task)
		if err != nil {
			return err
		}
		granted = granted || ok
	}

	if granted {
		Emit(ctx, userID, models.NotificationTypeSuccess,
			"Task completed",
			fmt.Sprintf("You completed \"%s\"", task.Title),
			&task.ID)
		publishUser(userID)
		publishGrants(userID)
	}

	return nil
}

// grantXP creates the XP grant and applies the reward. Returns true only for
// the invocation that created the grant.
func grantXP(ctx context.Context, userID string, task models.Task) (bool, error) {
	created, err := insertGrant(ctx, models.Grant{
		UserID:    userID,
		TaskID:    task.ID,
		Kind:      models.GrantKindXP,
		XPAmount:  task.XPReward,
		GrantedAt: time.Now(),
	})
	if err != nil || !created {
		return false, err
	}

	// Atomic increment: concurrent grants sum, none overwrites another.
	err = realtime.WithRetry(writeRetries(), func() error {
		return database.DB.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("xp", gorm.Expr("xp + ?", task.XPReward)).Error
	})
	if err != nil {
		return false, err
	}

	utils.GrantCount.WithLabelValues(string(models.GrantKindXP)).Inc()
	InvalidateLeaderboard()

	var user models.User
	if err := database.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return true, errors.Transport("Failed to read user after grant")
	}

	// Both levels derive from the one xp value we read back, so the
	// comparison is stable under concurrent grants.
	prevLevel := leveling.Level(user.XP - task.XPReward)
	newLevel := leveling.Level(user.XP)

	// The stored level is only a cache; the conditional write keeps it
	// monotonic when writers interleave out of order.
	database.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND level < ?", userID, newLevel).
		UpdateColumn("level", newLevel)

	if newLevel > prevLevel {
		utils.LevelUpCount.Inc()
		msg := fmt.Sprintf("You reached level %d", newLevel)
		if unlocks := leveling.UnlockedAt(newLevel); len(unlocks) > 0 {
			msg += fmt.Sprintf(" and unlocked %d new reward(s)", len(unlocks))
		}
		Emit(ctx, userID, models.NotificationTypeSuccess, "Level up!", msg, nil)
	}

	return true, nil
}

// grantBadge creates the badge grant and adds the badge to the user's
// collection. The collection is a set; re-adding is a no-op.
func grantBadge(ctx context.Context, userID string, task models.Task) (bool, error) {
	if task.BadgeID == nil {
		return false, errors.Validation("Badge task has no badgeId")
	}

	created, err := insertGrant(ctx, models.Grant{
		UserID:    userID,
		TaskID:    task.ID,
		Kind:      models.GrantKindBadge,
		BadgeID:   task.BadgeID,
		GrantedAt: time.Now(),
	})
	if err != nil || !created {
		return false, err
	}

	err = realtime.WithRetry(writeRetries(), func() error {
		ub := models.UserBadge{
			UserID:     userID,
			BadgeID:    *task.BadgeID,
			UnlockedAt: time.Now(),
		}
		return database.DB.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&ub).Error
	})
	if err != nil {
		return false, err
	}

	utils.GrantCount.WithLabelValues(string(models.GrantKindBadge)).Inc()
	InvalidateLeaderboard()
	return true, nil
}

// insertGrant is the atomically-checked read-modify-write at the heart of the
// exactly-once guarantee: a conditional insert keyed on "grant absent".
// Returns true when this call created the grant.
func insertGrant(ctx context.Context, grant models.Grant) (bool, error) {
	var created bool
	err := realtime.WithRetry(writeRetries(), func() error {
		res := database.DB.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&grant)
		if res.Error != nil {
			if isDuplicateKey(res.Error) {
				// Lost the race to a concurrent trigger. Local
				// recovery: re-check once, then no-op.
				return errors.Conflict("grant insert lost a race")
			}
			return res.Error
		}
		created = res.RowsAffected == 1
		return nil
	})

	if err != nil && stderrors.Is(err, errors.ErrConflict) {
		var count int64
		database.DB.WithContext(ctx).Model(&models.Grant{}).
			Where("user_id = ? AND task_id = ? AND kind = ?", grant.UserID, grant.TaskID, grant.Kind).
			Count(&count)
		if count > 0 {
			logger.Debug().
				Str("userId", grant.UserID).
				Str("taskId", grant.TaskID).
				Str("kind", string(grant.Kind)).
				Msg("duplicate grant trigger resolved as no-op")
			return false, nil
		}
		return false, err
	}

	return created, err
}

func isDuplicateKey(err error) bool {
	return stderrors.Is(err, gorm.ErrDuplicatedKey)
}

// GetGrants returns a user's grant history, newest first.
func GetGrants(ctx context.Context, userID string) ([]models.Grant, error) {
	var grants []models.Grant
	if err := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("granted_at desc").
		Find(&grants).Error; err != nil {
		return nil, errors.Transport("Failed to load grants")
	}
	return grants, nil
}

func publishGrants(userID string) {
	if grants, err := GetGrants(context.Background(), userID); err == nil {
		realtime.Bus.Publish("grants/"+userID, grants)
	}
}
