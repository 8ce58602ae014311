package models

import "time"

type GrantKind string

const (
	GrantKindXP    GrantKind = "XP"
	GrantKindBadge GrantKind = "BADGE"
)

// Grant is append-only. The composite primary key is the idempotency guard:
// a conditional insert on (user_id, task_id, kind) either creates the single
// grant or affects zero rows, so a completion can never pay out twice.
type Grant struct {
	UserID    string    `gorm:"primaryKey;type:text" json:"userId"`
	TaskID    string    `gorm:"primaryKey;type:text" json:"taskId"`
	Kind      GrantKind `gorm:"primaryKey;type:text" json:"kind"`
	XPAmount  int       `gorm:"default:0" json:"xpAmount"`
	BadgeID   *string   `gorm:"type:text" json:"badgeId,omitempty"`
	GrantedAt time.Time `json:"grantedAt"`
}
