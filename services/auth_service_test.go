package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"yard-staffing-api/config"
	"yard-staffing-api/models"
	"yard-staffing-api/repository"
)

type memCredentialStore struct {
	byEmail map[string]*models.Employee
	err     error
}

func (m *memCredentialStore) FindByEmail(_ context.Context, email string) (*models.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	if e, ok := m.byEmail[email]; ok {
		return e, nil
	}
	return nil, repository.ErrNotFound
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var testJWTConfig = config.JWTConfig{
	Secret:      "test-secret-key",
	ExpiryHours: 8,
	Issuer:      "yard-staffing-api",
	Audience:    "yard-staffing-clients",
}

func newTestAuthService(t *testing.T) (*AuthService, *memCredentialStore) {
	t.Helper()
	store := &memCredentialStore{byEmail: map[string]*models.Employee{}}
	svc := NewAuthService(testJWTConfig, store, SHA256Hasher{}, quietLogger())

	hash, err := svc.HashPassword("rightpass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	store.byEmail["known@x.com"] = &models.Employee{
		ID:           7,
		Name:         "Known User",
		Email:        "known@x.com",
		PasswordHash: hash,
		YardID:       2,
	}
	return svc, store
}

func TestHashPasswordDeterministic(t *testing.T) {
	svc, _ := newTestAuthService(t)

	hash1, _ := svc.HashPassword("minhasenha123")
	hash2, _ := svc.HashPassword("minhasenha123")
	if hash1 == "" {
		t.Fatal("hash should not be empty")
	}
	if hash1 != hash2 {
		t.Errorf("hashes differ: %q vs %q", hash1, hash2)
	}

	other, _ := svc.HashPassword("minhasenha124")
	if other == hash1 {
		t.Error("different passwords should produce different hashes")
	}
}

func TestHashPasswordKnownDigest(t *testing.T) {
	// base64(sha256("123456")), the digest stored for seeded employees.
	const want = "jZae727K08KaOmKSgOaGzww/XVqGr/PKEgIMkjrcbJI="
	got, _ := SHA256Hasher{}.Hash("123456")
	if got != want {
		t.Errorf("Hash(123456) = %q, want %q", got, want)
	}
}

func TestCheckPasswordAcceptsBothSchemes(t *testing.T) {
	svc, _ := newTestAuthService(t)

	legacy, _ := SHA256Hasher{}.Hash("s3cret")
	if !svc.CheckPassword(legacy, "s3cret") {
		t.Error("legacy digest should verify")
	}
	if svc.CheckPassword(legacy, "wrong") {
		t.Error("legacy digest should reject wrong password")
	}

	strong, err := BcryptHasher{Cost: 4}.Hash("s3cret")
	if err != nil {
		t.Fatalf("bcrypt hash failed: %v", err)
	}
	if !svc.CheckPassword(strong, "s3cret") {
		t.Error("bcrypt digest should verify")
	}
	if svc.CheckPassword(strong, "wrong") {
		t.Error("bcrypt digest should reject wrong password")
	}
}

func TestBcryptHashesAreSalted(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hash1, _ := h.Hash("same-password")
	hash2, _ := h.Hash("same-password")
	if hash1 == hash2 {
		t.Error("bcrypt hashes should differ due to random salt")
	}
}

func TestNewPasswordHasher(t *testing.T) {
	if h, err := NewPasswordHasher("sha256"); err != nil || h == nil {
		t.Errorf("sha256: %v", err)
	}
	if h, err := NewPasswordHasher("bcrypt"); err != nil || h == nil {
		t.Errorf("bcrypt: %v", err)
	}
	if _, err := NewPasswordHasher("md5"); err == nil {
		t.Error("expected error for unknown scheme")
	}
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestAuthService(t)

	result, err := svc.Login(context.Background(), "known@x.com", "rightpass")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("token should not be empty")
	}
	if result.Profile.ID != 7 || result.Profile.Email != "known@x.com" || result.Profile.Name != "Known User" {
		t.Errorf("Profile = %+v", result.Profile)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, wrongPass := svc.Login(context.Background(), "known@x.com", "wrongpass")
	_, unknown := svc.Login(context.Background(), "nope@x.com", "anything")

	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", wrongPass)
	}
	if !errors.Is(unknown, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Errorf("messages differ: %q vs %q", wrongPass.Error(), unknown.Error())
	}
	if wrongPass.Error() != "invalid email or password" {
		t.Errorf("message = %q", wrongPass.Error())
	}
}

func TestLoginStoreFailureIsNotInvalidCredentials(t *testing.T) {
	svc, store := newTestAuthService(t)
	store.err = errors.New("connection refused")

	_, err := svc.Login(context.Background(), "known@x.com", "rightpass")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("store failure must not be reported as invalid credentials")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	issued := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, expiresAt, err := svc.GenerateToken(models.Profile{ID: 42, Name: "Ana", Email: "ana@fleet.test"})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if !expiresAt.Equal(issued.Add(8 * time.Hour)) {
		t.Errorf("expiresAt = %v, want %v", expiresAt, issued.Add(8*time.Hour))
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.EmployeeID != 42 {
		t.Errorf("EmployeeID = %d, want 42", claims.EmployeeID)
	}
	if claims.Name != "Ana" {
		t.Errorf("Name = %q", claims.Name)
	}
	if claims.Email != "ana@fleet.test" || claims.Subject != "ana@fleet.test" {
		t.Errorf("Email = %q, Subject = %q", claims.Email, claims.Subject)
	}
	if claims.ID == "" {
		t.Error("token id (jti) should be set")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.Equal(issued.Add(8*time.Hour)) {
		t.Errorf("ExpiresAt = %v", claims.ExpiresAt)
	}
}

func TestTokenIDsAreUnique(t *testing.T) {
	svc, _ := newTestAuthService(t)
	profile := models.Profile{ID: 1, Name: "A", Email: "a@x.com"}

	t1, _, _ := svc.GenerateToken(profile)
	t2, _, _ := svc.GenerateToken(profile)
	c1, _ := svc.ValidateToken(t1)
	c2, _ := svc.ValidateToken(t2)
	if c1.ID == c2.ID {
		t.Error("each token should carry a unique jti")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc, _ := newTestAuthService(t)
	issued := time.Now().Add(-9 * time.Hour)
	svc.now = func() time.Time { return issued }
	token, _, _ := svc.GenerateToken(models.Profile{ID: 1, Email: "a@x.com"})

	svc.now = time.Now
	_, err := svc.ValidateToken(token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.ValidateToken("invalid.token.string"); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	cfg2 := testJWTConfig
	cfg2.Secret = "secret-2"
	svc1 := NewAuthService(testJWTConfig, nil, nil, quietLogger())
	svc2 := NewAuthService(cfg2, nil, nil, quietLogger())

	token, _, _ := svc1.GenerateToken(models.Profile{ID: 1, Email: "user@test.com"})

	if _, err := svc2.ValidateToken(token); err == nil {
		t.Error("expected error when validating with wrong secret")
	}
}

func TestValidateTokenWrongAudience(t *testing.T) {
	cfg2 := testJWTConfig
	cfg2.Audience = "someone-else"
	svc1 := NewAuthService(testJWTConfig, nil, nil, quietLogger())
	svc2 := NewAuthService(cfg2, nil, nil, quietLogger())

	token, _, _ := svc1.GenerateToken(models.Profile{ID: 1, Email: "user@test.com"})

	if _, err := svc2.ValidateToken(token); err == nil {
		t.Error("expected error for foreign audience")
	}
}
