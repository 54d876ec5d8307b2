package models

import "time"

// Manager promotes an employee to run exactly one yard.
type Manager struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID uint      `gorm:"uniqueIndex;not null" json:"employeeId" binding:"required"`
	Employee   *Employee `gorm:"constraint:OnDelete:CASCADE" json:"employee,omitempty"`
	YardID     uint      `gorm:"uniqueIndex;not null" json:"yardId" binding:"required"`
	Yard       *Yard     `gorm:"constraint:OnDelete:RESTRICT" json:"yard,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Manager) TableName() string { return "managers" }
