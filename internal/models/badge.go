package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Badge struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `json:"icon"` // glyph, URL, or icon-class token
	CreatedAt   time.Time `json:"createdAt"`
}

func (b *Badge) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	return
}

// UserBadge is a row in a user's badge collection. A collection is a set of
// badge ids, no quantity; the composite key enforces that.
type UserBadge struct {
	UserID     string    `gorm:"primaryKey;type:text" json:"userId"`
	BadgeID    string    `gorm:"primaryKey;type:text" json:"badgeId"`
	UnlockedAt time.Time `json:"unlockedAt"`

	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge"`
}
