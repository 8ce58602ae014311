package services

import (
	"context"
	"fmt"

	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/leveling"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/dnachavez/ecowaste-sub001/internal/realtime"
	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
)

var slotColumns = map[leveling.Slot]string{
	leveling.SlotAvatar: "equipped_avatar",
	leveling.SlotBorder: "equipped_border",
	leveling.SlotBadge:  "equipped_badge",
}

// Equip sets the user's cosmetic for one slot. Equipping is a total replace:
// at most one item per slot. Gated on the level derived from the user's xp,
// never on the stored level cache. Emits no notification.
func Equip(ctx context.Context, userID string, slot leveling.Slot, cosmeticID string) error {
	column, ok := slotColumns[slot]
	if !ok {
		return errors.Validation("Unknown slot: " + string(slot))
	}

	var user models.User
	if err := database.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return errors.NotFound("User not found")
	}

	if err := validateEquip(user, slot, cosmeticID); err != nil {
		return err
	}

	err := realtime.WithRetry(writeRetries(), func() error {
		return database.DB.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn(column, cosmeticID).Error
	})
	if err != nil {
		return err
	}

	publishUser(userID)
	return nil
}

func validateEquip(user models.User, slot leveling.Slot, cosmeticID string) error {
	// "default" is always legal for avatar and border.
	if cosmeticID == models.DefaultCosmetic {
		if slot == leveling.SlotAvatar || slot == leveling.SlotBorder {
			return nil
		}
		return errors.Validation("No default for slot " + string(slot))
	}

	if slot == leveling.SlotBadge {
		// Badge display comes from the earned collection, not the level
		// catalog.
		var count int64
		if err := database.DB.Model(&models.UserBadge{}).
			Where("user_id = ? AND badge_id = ?", user.ID, cosmeticID).
			Count(&count).Error; err != nil {
			return errors.Transport("Failed to check badge collection")
		}
		if count == 0 {
			return errors.NotUnlocked("Badge not in your collection")
		}
		return nil
	}

	cosmetic, found := leveling.Find(cosmeticID)
	if !found {
		return errors.NotFound("Unknown cosmetic: " + cosmeticID)
	}
	if cosmetic.Slot != slot {
		return errors.Validation("Cosmetic " + cosmeticID + " does not fit slot " + string(slot))
	}

	level := leveling.Level(user.XP)
	if cosmetic.Level > level {
		return errors.NotUnlocked(fmt.Sprintf("Cosmetic %s unlocks at level %d", cosmeticID, cosmetic.Level))
	}
	return nil
}

// GetGameState returns the user's game state with derived fields recomputed
// from xp: the stored level column is repaired in passing if it drifted.
func GetGameState(ctx context.Context, userID string) (*models.User, []string, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).Preload("Badges.Badge").
		First(&user, "id = ?", userID).Error; err != nil {
		return nil, nil, errors.NotFound("User not found")
	}

	derived := leveling.Level(user.XP)
	if user.Level != derived {
		database.DB.WithContext(ctx).Model(&models.User{}).
			Where("id = ? AND level < ?", userID, derived).
			UpdateColumn("level", derived)
		user.Level = derived
	}

	return &user, leveling.Unlocked(derived), nil
}
