package service

import (
	"context"
	"errors"
	"fmt"
	"posta/internal/auth"
	"posta/internal/entity"
	"posta/internal/entity/converter"
	"posta/internal/entity/db"
	"posta/internal/entity/dto"
	"posta/internal/metrics"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthService 账户注册、登录与令牌校验。
type AuthService struct {
	*base
	tokens            *auth.Manager
	allowRegistration bool
}

// Register creates an account and returns a session token.
func (s *AuthService) Register(ctx context.Context, req dto.AuthRegisterRequest) (*dto.AuthResponse, error) {
	if !s.allowRegistration {
		metrics.TrackAuthAttempt("failure", "register")
		return nil, fmt.Errorf("%w: registration is disabled", ErrForbidden)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	if email == "" || password == "" {
		return nil, invalidArgument("email and password are required")
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		metrics.TrackAuthAttempt("failure", "register")
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock()
	user := &db.User{
		ID:           entity.NewUserID(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, translateRepoError(err)
	}

	metrics.TrackAuthAttempt("success", "register")
	return s.session(user)
}

// Login verifies the credentials and returns a session token.
func (s *AuthService) Login(ctx context.Context, req dto.AuthLoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	if email == "" || password == "" {
		return nil, invalidArgument("email and password are required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		logrus.WithField("email", email).Warn("login attempt for unknown email")
		metrics.TrackAuthAttempt("failure", "login")
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		logrus.WithField("email", email).Warn("password verification failed")
		metrics.TrackAuthAttempt("failure", "login")
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	}
	if !user.IsActive {
		metrics.TrackAuthAttempt("failure", "login")
		return nil, fmt.Errorf("%w: user is disabled", ErrForbidden)
	}

	metrics.TrackAuthAttempt("success", "login")
	return s.session(user)
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*db.User, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	user, err := s.repo.GetUserByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user is disabled", ErrForbidden)
	}
	return user, nil
}

// Me returns the profile of the caller.
func (s *AuthService) Me(ctx context.Context, userID entity.UserID) (*dto.UserSummary, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	summary := converter.UserToSummary(user)
	return &summary, nil
}

func (s *AuthService) session(user *db.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      converter.UserToSummary(user),
	}, nil
}
