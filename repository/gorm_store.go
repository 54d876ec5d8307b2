package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yard-staffing-api/models"
)

// crudStore holds the query shapes shared by every table; callers pick which
// associations are preloaded on reads.
type crudStore[T any] struct {
	db       *gorm.DB
	preloads []string
}

func (s crudStore[T]) read(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx)
	for _, assoc := range s.preloads {
		q = q.Preload(assoc)
	}
	return q
}

func (s crudStore[T]) list(ctx context.Context, page Page) ([]T, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]T, 0, page.Size)
	err := s.read(ctx).
		Order("id").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s crudStore[T]) get(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := s.read(ctx).First(&row, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}

func (s crudStore[T]) create(ctx context.Context, row *T) error {
	return translateError(s.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error)
}

func (s crudStore[T]) update(ctx context.Context, id uint, row *T) error {
	res := s.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit(clause.Associations, "id", "created_at").
		Updates(row)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s crudStore[T]) delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type YardRepository struct {
	crud crudStore[models.Yard]
}

func NewYardRepository(db *gorm.DB) *YardRepository {
	return &YardRepository{crud: crudStore[models.Yard]{db: db}}
}

func (r *YardRepository) List(ctx context.Context, page Page) ([]models.Yard, int64, error) {
	return r.crud.list(ctx, page)
}

func (r *YardRepository) Get(ctx context.Context, id uint) (*models.Yard, error) {
	return r.crud.get(ctx, id)
}

func (r *YardRepository) Create(ctx context.Context, yard *models.Yard) error {
	return r.crud.create(ctx, yard)
}

func (r *YardRepository) Update(ctx context.Context, yard *models.Yard) error {
	return r.crud.update(ctx, yard.ID, yard)
}

func (r *YardRepository) Delete(ctx context.Context, id uint) error {
	return r.crud.delete(ctx, id)
}

type EmployeeRepository struct {
	crud crudStore[models.Employee]
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{crud: crudStore[models.Employee]{db: db, preloads: []string{"Yard"}}}
}

func (r *EmployeeRepository) List(ctx context.Context, page Page) ([]models.Employee, int64, error) {
	return r.crud.list(ctx, page)
}

func (r *EmployeeRepository) Get(ctx context.Context, id uint) (*models.Employee, error) {
	return r.crud.get(ctx, id)
}

// FindByEmail is the credential lookup used at login; it skips preloads.
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	err := r.crud.db.WithContext(ctx).Where("email = ?", email).First(&employee).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &employee, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return r.crud.create(ctx, employee)
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return r.crud.update(ctx, employee.ID, employee)
}

func (r *EmployeeRepository) Delete(ctx context.Context, id uint) error {
	return r.crud.delete(ctx, id)
}

type ManagerRepository struct {
	crud crudStore[models.Manager]
}

func NewManagerRepository(db *gorm.DB) *ManagerRepository {
	return &ManagerRepository{crud: crudStore[models.Manager]{db: db, preloads: []string{"Employee", "Yard"}}}
}

func (r *ManagerRepository) List(ctx context.Context, page Page) ([]models.Manager, int64, error) {
	return r.crud.list(ctx, page)
}

func (r *ManagerRepository) Get(ctx context.Context, id uint) (*models.Manager, error) {
	return r.crud.get(ctx, id)
}

func (r *ManagerRepository) Create(ctx context.Context, manager *models.Manager) error {
	return r.crud.create(ctx, manager)
}

func (r *ManagerRepository) Update(ctx context.Context, manager *models.Manager) error {
	return r.crud.update(ctx, manager.ID, manager)
}

func (r *ManagerRepository) Delete(ctx context.Context, id uint) error {
	return r.crud.delete(ctx, id)
}

var (
	_ YardStore     = (*YardRepository)(nil)
	_ EmployeeStore = (*EmployeeRepository)(nil)
	_ ManagerStore  = (*ManagerRepository)(nil)
)
