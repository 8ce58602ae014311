package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// DefaultCosmetic is always equippable for the avatar and border slots.
const DefaultCosmetic = "default"

// User carries the engine-owned game state (xp, level cache, equipped
// cosmetics) merged with profile fields owned by the external auth/profile
// collaborators (role, name, email).
type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Profile (externally owned)
	DisplayName string `json:"displayName"`
	Email       string `gorm:"uniqueIndex" json:"email"`
	Role        Role   `gorm:"type:text;default:'USER'" json:"role"`

	// Game state (engine owned)
	XP int `gorm:"default:0" json:"xp"`
	// Level is a cache of leveling.Level(XP). It is rewritten on every xp
	// change and repaired by the reconciliation sweep; it is never
	// independent truth.
	Level int `gorm:"default:1" json:"level"`

	EquippedAvatar string `gorm:"default:'default'" json:"equippedAvatar"`
	EquippedBorder string `gorm:"default:'default'" json:"equippedBorder"`
	EquippedBadge  string `json:"equippedBadge"`

	Badges []UserBadge `gorm:"foreignKey:UserID" json:"badges,omitempty"`
}
