package models

import "time"

// Yard is a vehicle yard (pátio) where employees are allocated.
type Yard struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required,max=100"`
	Address   string    `gorm:"size:200;not null" json:"address" binding:"required,max=200"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Yard) TableName() string { return "yards" }
