package models

import "time"

// Employee doubles as the credential record used for login.
type Employee struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:256;not null" json:"-"`
	YardID       uint      `gorm:"not null;index" json:"yardId"`
	Yard         *Yard     `gorm:"constraint:OnDelete:CASCADE" json:"yard,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Employee) TableName() string { return "employees" }

// Profile is the public view of an employee returned after login.
type Profile struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	YardID uint   `json:"yardId"`
}

func (e Employee) Profile() Profile {
	return Profile{ID: e.ID, Name: e.Name, Email: e.Email, YardID: e.YardID}
}
