package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oyilmaz/carmarket-backend/internal/auth"
	"github.com/oyilmaz/carmarket-backend/internal/models"
	repo "github.com/oyilmaz/carmarket-backend/internal/repository"
	"github.com/oyilmaz/carmarket-backend/internal/worker"
)

type UserService struct {
	r   repo.Users
	tm  *auth.TokenManager
	log repo.AuditLogs
	wp  *worker.Pool
}

func NewUserService(r repo.Users, tm *auth.TokenManager, l repo.AuditLogs, wp *worker.Pool) *UserService {
	return &UserService{r: r, tm: tm, log: l, wp: wp}
}

func (s *UserService) audit(userID, action string, details map[string]any) {
	id := userID
	s.wp.Submit(func() {
		_ = s.log.Create(context.Background(), models.AuditLog{
			EntityType: "user",
			EntityID:   &id,
			Action:     action,
			Details:    details,
		})
	})
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	u := models.User{
		Username: strings.TrimSpace(username),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Role:     models.RoleUser,
	}
	if err := u.Validate(); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(password) < 8 {
		return models.User{}, fmt.Errorf("%w: password too short", ErrInvalidInput)
	}
	if _, err := s.r.GetByEmail(ctx, u.Email); err == nil {
		return models.User{}, ErrEmailTaken
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	created, err := s.r.Create(ctx, u.Username, u.Email, hash, u.Role)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.audit(created.ID, "registered", nil)
	return created, nil
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (models.User, TokenPair, error) {
	u, err := s.r.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, TokenPair{}, ErrBadCredentials
	}
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return models.User{}, TokenPair{}, ErrBadCredentials
	}
	access, refresh, exp, err := s.tm.GeneratePair(u.ID, u.Role)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return u, TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *UserService) Refresh(tokenStr string) (TokenPair, error) {
	claims, isRefresh, err := s.tm.ParseAny(tokenStr)
	if err != nil || !isRefresh {
		return TokenPair{}, ErrBadCredentials
	}
	access, refresh, exp, err := s.tm.GeneratePair(claims.UserID, claims.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

// AssignRole grants a role to the user with the given email. Admin-only at
// the transport layer.
func (s *UserService) AssignRole(ctx context.Context, email, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	u, err := s.r.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: user %s", ErrNotFound, email)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.r.UpdateRole(ctx, u.ID, role); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.audit(u.ID, "role_assigned", map[string]any{"role": role})
	return nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.r.List(ctx)
}
