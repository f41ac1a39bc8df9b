package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
	"github.com/Priyanshusingh0818/GORUS/internal/store"
	"github.com/Priyanshusingh0818/GORUS/internal/utils"
)

const minPasswordLength = 6

type AuthService struct {
	store  *store.Store
	tokens *utils.TokenManager
	log    *slog.Logger
}

func NewAuthService(st *store.Store, tokens *utils.TokenManager, log *slog.Logger) *AuthService {
	return &AuthService{store: st, tokens: tokens, log: log.With("component", "auth")}
}

type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, Validation("email and password required")
	}

	if _, err := s.store.UserByEmail(ctx, email); err == nil {
		return nil, Conflict("User already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Email: email, PasswordHash: hash}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = &name
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, Conflict("User already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	s.log.Info("User signed up", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Login gives the same answer for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, Validation("email and password required")
	}

	user, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Verify checks the token signature and expiry only; the claims are trusted
// until the token expires.
func (s *AuthService) Verify(token string) (*utils.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, Unauthorized("Invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" {
		return nil, Validation("Name and email are required")
	}

	existing, err := s.store.UserByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != userID:
		return nil, Conflict("Email already in use")
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if _, err := s.store.UserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("User not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := s.store.UpdateProfile(ctx, userID, &name, email); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, Conflict("Email already in use")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.store.UserByID(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if current == "" || next == "" {
		return Validation("Current password and new password are required")
	}
	if len(next) < minPasswordLength {
		return Validation("New password must be at least %d characters", minPasswordLength)
	}

	user, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("User not found")
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if !utils.CheckPasswordHash(current, user.PasswordHash) {
		return Unauthorized("Current password is incorrect")
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.log.Info("Password changed", "user_id", userID)
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Promote grants admin rights to an existing account.
func (s *AuthService) Promote(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := s.store.UserByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFound("User not found")
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	return s.store.SetAdmin(ctx, email, true)
}
