package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxUserIDLength  = 256
	MaxContentLength = 1024
	MaxHeadingLength = 256

	// AnonymousUserID owns tasks generated without a caller identity.
	AnonymousUserID = "anonymous"
)

type Task struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:varchar(256);not null;index" json:"userId"`
	Content   string    `gorm:"type:varchar(1024);not null" json:"content"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	Heading   *string   `gorm:"type:varchar(256)" json:"heading"`
}

func (Task) TableName() string {
	return "tasks"
}

// BeforeCreate assigns the id in Go so every dialect gets one.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// HeadingOrEmpty dereferences Heading.
func (t *Task) HeadingOrEmpty() string {
	if t.Heading == nil {
		return ""
	}
	return *t.Heading
}
