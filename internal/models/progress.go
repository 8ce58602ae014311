package models

import "time"

// Progress tracks qualifying actions per (user, task). One row per pair,
// created on the first qualifying action. Count never exceeds the task target
// and never decreases while the task definition stands.
type Progress struct {
	UserID    string    `gorm:"primaryKey;type:text" json:"userId"`
	TaskID    string    `gorm:"primaryKey;type:text" json:"taskId"`
	Count     int       `gorm:"default:0" json:"count"`
	Completed bool      `gorm:"default:false;index" json:"completed"`
	UpdatedAt time.Time `json:"updatedAt"`

	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}

func (Progress) TableName() string {
	return "progress"
}
