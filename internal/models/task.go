package models

import (
	"time"

	"gorm.io/gorm"
)

// Task references its owner and category by id only. Owner and Category
// exist so the schema carries the foreign keys; they are never preloaded.
type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Description string         `gorm:"type:varchar(500)" json:"description"`
	Deadline    time.Time      `gorm:"not null" json:"deadline"`
	UserID      uint64         `gorm:"not null" json:"user_id"`
	CategoryID  uint64         `gorm:"not null" json:"category_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner    *User     `gorm:"foreignKey:UserID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// TaskOwnership is the projection the access checks read: a task id and the
// username of the user that owns it.
type TaskOwnership struct {
	TaskID   uint64
	UserID   uint64
	Username string
}
