package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskType string

const (
	TaskTypeRecycle TaskType = "RECYCLE"
	TaskTypeDonate  TaskType = "DONATE"
	TaskTypeProject TaskType = "PROJECT"
	TaskTypeXP      TaskType = "XP"

	// TaskTypeLegacy exists only for records created before the enumeration
	// was tightened ("other" in the old data). Never accepted on new writes.
	TaskTypeLegacy TaskType = "OTHER"
)

type RewardType string

const (
	RewardTypeXP    RewardType = "XP"
	RewardTypeBadge RewardType = "BADGE"
)

type Task struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Type        TaskType   `gorm:"type:text;not null;index" json:"type"`
	Target      int        `gorm:"not null;default:1" json:"target"`
	RewardType  RewardType `gorm:"type:text;not null;default:'XP'" json:"rewardType"`
	XPReward    int        `gorm:"default:0" json:"xpReward"`
	BadgeID     *string    `gorm:"index;type:text" json:"badgeId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	Badge *Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return
}

// ValidNewTaskType reports whether t is accepted for newly created tasks.
// The legacy value is readable but closed to new writes.
func ValidNewTaskType(t TaskType) bool {
	switch t {
	case TaskTypeRecycle, TaskTypeDonate, TaskTypeProject, TaskTypeXP:
		return true
	}
	return false
}
