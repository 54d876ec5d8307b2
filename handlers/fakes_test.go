package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"yard-staffing-api/config"
	"yard-staffing-api/models"
	"yard-staffing-api/repository"
	"yard-staffing-api/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memYardStore struct {
	mu     sync.Mutex
	rows   map[uint]models.Yard
	nextID uint
	inUse  map[uint]bool
}

func newMemYardStore() *memYardStore {
	return &memYardStore{rows: map[uint]models.Yard{}, inUse: map[uint]bool{}}
}

func (s *memYardStore) List(_ context.Context, page repository.Page) ([]models.Yard, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.Yard, 0, len(s.rows))
	for id := uint(1); id <= s.nextID; id++ {
		if y, ok := s.rows[id]; ok {
			all = append(all, y)
		}
	}
	return paginate(all, page), int64(len(all)), nil
}

func (s *memYardStore) Get(_ context.Context, id uint) (*models.Yard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	y, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &y, nil
}

func (s *memYardStore) Create(_ context.Context, yard *models.Yard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	yard.ID = s.nextID
	s.rows[yard.ID] = *yard
	return nil
}

func (s *memYardStore) Update(_ context.Context, yard *models.Yard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[yard.ID]; !ok {
		return repository.ErrNotFound
	}
	s.rows[yard.ID] = *yard
	return nil
}

func (s *memYardStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	if s.inUse[id] {
		return repository.ErrInUse
	}
	delete(s.rows, id)
	return nil
}

type memEmployeeStore struct {
	mu     sync.Mutex
	rows   map[uint]models.Employee
	nextID uint
}

func newMemEmployeeStore() *memEmployeeStore {
	return &memEmployeeStore{rows: map[uint]models.Employee{}}
}

func (s *memEmployeeStore) List(_ context.Context, page repository.Page) ([]models.Employee, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.Employee, 0, len(s.rows))
	for id := uint(1); id <= s.nextID; id++ {
		if e, ok := s.rows[id]; ok {
			all = append(all, e)
		}
	}
	return paginate(all, page), int64(len(all)), nil
}

func (s *memEmployeeStore) Get(_ context.Context, id uint) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (s *memEmployeeStore) FindByEmail(_ context.Context, email string) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.rows {
		if e.Email == email {
			e := e
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memEmployeeStore) emailTaken(email string, except uint) bool {
	for id, e := range s.rows {
		if id != except && e.Email == email {
			return true
		}
	}
	return false
}

func (s *memEmployeeStore) Create(_ context.Context, employee *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(employee.Email, 0) {
		return repository.ErrDuplicate
	}
	s.nextID++
	employee.ID = s.nextID
	s.rows[employee.ID] = *employee
	return nil
}

func (s *memEmployeeStore) Update(_ context.Context, employee *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[employee.ID]; !ok {
		return repository.ErrNotFound
	}
	if s.emailTaken(employee.Email, employee.ID) {
		return repository.ErrDuplicate
	}
	s.rows[employee.ID] = *employee
	return nil
}

func (s *memEmployeeStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

type memManagerStore struct {
	mu     sync.Mutex
	rows   map[uint]models.Manager
	nextID uint
}

func newMemManagerStore() *memManagerStore {
	return &memManagerStore{rows: map[uint]models.Manager{}}
}

func (s *memManagerStore) List(_ context.Context, page repository.Page) ([]models.Manager, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.Manager, 0, len(s.rows))
	for id := uint(1); id <= s.nextID; id++ {
		if m, ok := s.rows[id]; ok {
			all = append(all, m)
		}
	}
	return paginate(all, page), int64(len(all)), nil
}

func (s *memManagerStore) Get(_ context.Context, id uint) (*models.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (s *memManagerStore) Create(_ context.Context, manager *models.Manager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.rows {
		if m.YardID == manager.YardID || m.EmployeeID == manager.EmployeeID {
			return repository.ErrDuplicate
		}
	}
	s.nextID++
	manager.ID = s.nextID
	s.rows[manager.ID] = *manager
	return nil
}

func (s *memManagerStore) Update(_ context.Context, manager *models.Manager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[manager.ID]; !ok {
		return repository.ErrNotFound
	}
	s.rows[manager.ID] = *manager
	return nil
}

func (s *memManagerStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func paginate[T any](all []T, page repository.Page) []T {
	start := page.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

type testEnv struct {
	router    *gin.Engine
	yards     *memYardStore
	employees *memEmployeeStore
	managers  *memManagerStore
	auth      *services.AuthService
	token     string
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestEnv builds the full router over in-memory stores with one seeded
// employee (ana@example.com / secret1) and a token for them.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := quietLogger()

	yards := newMemYardStore()
	employees := newMemEmployeeStore()
	managers := newMemManagerStore()

	auth := services.NewAuthService(config.JWTConfig{
		Secret:      "handler-test-secret",
		ExpiryHours: 8,
		Issuer:      "yard-staffing-api",
		Audience:    "yard-staffing-clients",
	}, employees, services.SHA256Hasher{}, logger)

	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	seeded := models.Employee{Name: "Ana", Email: "ana@example.com", PasswordHash: hash, YardID: 1}
	if err := employees.Create(context.Background(), &seeded); err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	token, _, err := auth.GenerateToken(seeded.Profile())
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	model, err := services.TrainStaffingModel(services.DefaultStaffingSamples, 0.1)
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	router := NewRouter(RouterDeps{
		Logger:    logger,
		CORS:      config.CORSConfig{AllowedOrigins: "*"},
		Auth:      auth,
		Model:     model,
		Cache:     services.NewDisabledCache(logger),
		Yards:     yards,
		Employees: employees,
		Managers:  managers,
		Health:    NewHealthHandler(PingFunc(func(context.Context) error { return nil }), nil),
	})

	return &testEnv{
		router:    router,
		yards:     yards,
		employees: employees,
		managers:  managers,
		auth:      auth,
		token:     token,
	}
}

func (e *testEnv) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}
