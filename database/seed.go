package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"yard-staffing-api/models"
	"yard-staffing-api/services"
)

const seedPassword = "123456"

// Seed inserts demo yards, employees and managers when the yards table is
// empty. It runs in one transaction.
func Seed(ctx context.Context, db *gorm.DB, hasher services.PasswordHasher, log *logrus.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Yard{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count yards: %w", err)
	}
	if count > 0 {
		log.Debug("seed skipped: yards already present")
		return nil
	}

	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		yards := []models.Yard{
			{Name: "Central Yard", Address: "123 Flower St - Downtown"},
			{Name: "North Yard", Address: "456 North Ave - North Zone"},
			{Name: "South Yard", Address: "789 South St - South Zone"},
		}
		if err := tx.Create(&yards).Error; err != nil {
			return fmt.Errorf("seed yards: %w", err)
		}

		employees := []models.Employee{
			{Name: "João Silva", Email: "joao.silva@mottu.com", PasswordHash: hash, YardID: yards[0].ID},
			{Name: "Maria Santos", Email: "maria.santos@mottu.com", PasswordHash: hash, YardID: yards[1].ID},
			{Name: "Pedro Costa", Email: "pedro.costa@mottu.com", PasswordHash: hash, YardID: yards[2].ID},
		}
		if err := tx.Create(&employees).Error; err != nil {
			return fmt.Errorf("seed employees: %w", err)
		}

		managers := []models.Manager{
			{EmployeeID: employees[0].ID, YardID: yards[0].ID},
			{EmployeeID: employees[1].ID, YardID: yards[1].ID},
		}
		if err := tx.Create(&managers).Error; err != nil {
			return fmt.Errorf("seed managers: %w", err)
		}

		log.Infof("seeded %d yards, %d employees, %d managers", len(yards), len(employees), len(managers))
		return nil
	})
}
