// Package repository persists yards, employees and managers through gorm.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"yard-staffing-api/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	// ErrInUse is returned when a foreign key still references the row,
	// or when a referenced row does not exist.
	ErrInUse = errors.New("record is referenced by or references a missing record")
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based offset page.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps raw query values into a usable page.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

type YardStore interface {
	List(ctx context.Context, page Page) ([]models.Yard, int64, error)
	Get(ctx context.Context, id uint) (*models.Yard, error)
	Create(ctx context.Context, yard *models.Yard) error
	Update(ctx context.Context, yard *models.Yard) error
	Delete(ctx context.Context, id uint) error
}

type EmployeeStore interface {
	List(ctx context.Context, page Page) ([]models.Employee, int64, error)
	Get(ctx context.Context, id uint) (*models.Employee, error)
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id uint) error
}

type ManagerStore interface {
	List(ctx context.Context, page Page) ([]models.Manager, int64, error)
	Get(ctx context.Context, id uint) (*models.Manager, error)
	Create(ctx context.Context, manager *models.Manager) error
	Update(ctx context.Context, manager *models.Manager) error
	Delete(ctx context.Context, id uint) error
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrInUse
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrInUse
		}
	}
	return err
}
