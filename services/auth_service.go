package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"yard-staffing-api/config"
	"yard-staffing-api/metrics"
	"yard-staffing-api/models"
	"yard-staffing-api/repository"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// CredentialStore looks up credential records by exact email.
// It returns repository.ErrNotFound when no record matches.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
}

type AuthService struct {
	store     CredentialStore
	hasher    PasswordHasher
	jwtSecret []byte
	expiry    time.Duration
	issuer    string
	audience  string
	logger    *logrus.Logger
	now       func() time.Time
}

func NewAuthService(cfg config.JWTConfig, store CredentialStore, hasher PasswordHasher, logger *logrus.Logger) *AuthService {
	if hasher == nil {
		hasher = SHA256Hasher{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthService{
		store:     store,
		hasher:    hasher,
		jwtSecret: []byte(cfg.Secret),
		expiry:    time.Duration(cfg.ExpiryHours) * time.Hour,
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		logger:    logger,
		now:       time.Now,
	}
}

// HashPassword digests plain with the configured scheme.
func (s *AuthService) HashPassword(plain string) (string, error) {
	return s.hasher.Hash(plain)
}

// CheckPassword accepts both legacy SHA-256 digests and bcrypt digests.
func (s *AuthService) CheckPassword(hash, plain string) bool {
	if isBcryptHash(hash) {
		return BcryptHasher{}.Verify(hash, plain)
	}
	return SHA256Hasher{}.Verify(hash, plain)
}

type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Profile   models.Profile `json:"profile"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	log := s.logger.WithField("email", email)

	employee, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ObserveLogin("invalid")
			log.Info("login rejected")
			return nil, ErrInvalidCredentials
		}
		metrics.ObserveLogin("error")
		return nil, fmt.Errorf("lookup credentials: %w", err)
	}

	if !s.CheckPassword(employee.PasswordHash, password) {
		metrics.ObserveLogin("invalid")
		log.Info("login rejected")
		return nil, ErrInvalidCredentials
	}

	profile := employee.Profile()
	token, expiresAt, err := s.GenerateToken(profile)
	if err != nil {
		metrics.ObserveLogin("error")
		return nil, fmt.Errorf("sign token: %w", err)
	}

	metrics.ObserveLogin("success")
	log.WithField("employee_id", profile.ID).Info("login succeeded")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Profile: profile}, nil
}

type Claims struct {
	EmployeeID uint   `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for profile that expires after the
// configured number of hours.
func (s *AuthService) GenerateToken(profile models.Profile) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)

	claims := Claims{
		EmployeeID: profile.ID,
		Name:       profile.Name,
		Email:      profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.Email,
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.jwtSecret, nil
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
