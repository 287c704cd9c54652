// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, and issuing/rotating JWTs
// plus server-stored refresh tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/libkeeper/internal/common"
	"github.com/dmitrijs2005/libkeeper/internal/server/auth"
	"github.com/dmitrijs2005/libkeeper/internal/server/config"
	"github.com/dmitrijs2005/libkeeper/internal/server/models"
	"github.com/dmitrijs2005/libkeeper/internal/server/repositories/users"
)

// refreshTokenBytes is the entropy of a refresh token before base64 encoding.
const refreshTokenBytes = 64

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials
// - IssueTokenPair: mint tokens and persist the refresh token
// - Refresh: rotate refresh tokens and mint new access tokens
// - Logout: revoke the stored refresh token
type UserService struct {
	users                        users.Repository
	jwtSecret                    []byte
	jwtIssuer                    string
	jwtAudience                  string
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using the user repository and server config.
func NewUserService(users users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		users:                        users,
		jwtSecret:                    []byte(cfg.SecretKey),
		jwtIssuer:                    cfg.JWTIssuer,
		jwtAudience:                  cfg.JWTAudience,
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new user with a hashed credential and no active session.
// A taken email yields common.ErrEmailAlreadyInUse and performs no write.
func (s *UserService) Register(ctx context.Context, fullName, email, password string) (*models.User, error) {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, common.ErrEmailAlreadyInUse
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{FullName: fullName, Email: email, PasswordHash: hash}
	u, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and returns the user record. Token issuance
// is a separate step. An unknown email and a wrong password are deliberately
// indistinguishable: both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// IssueTokenPair mints a fresh access/refresh pair for user and persists the
// refresh token with expiry now+RefreshTokenValidityDuration. If the store
// write fails, no token reaches the caller.
func (s *UserService) IssueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.generateAccessToken(user.Email)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	expiry := time.Now().Add(s.refreshTokenValidityDuration)
	if err := s.users.SetRefreshToken(ctx, user.ID, refresh, expiry); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateRefreshToken returns the user holding exactly this token with an
// expiry strictly in the future. "Not found", "expired" and "already rotated"
// are one outcome: common.ErrRefreshTokenInvalid.
func (s *UserService) ValidateRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	user, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenInvalid
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	return user, nil
}

// Refresh validates refreshToken, rotates it (the old value becomes invalid
// immediately) and mints a new access token. The stored expiry is not
// extended: only login restarts the session clock.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	user, err := s.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	newRefresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.users.ReplaceRefreshToken(ctx, user.ID, refreshToken, newRefresh); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// lost a race with a concurrent rotation or logout
			return nil, common.ErrRefreshTokenInvalid
		}
		return nil, fmt.Errorf("error rotating refresh token: %w", err)
	}

	access, err := s.generateAccessToken(user.Email)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

// Logout revokes the session holding this exact refresh token. Unknown or
// already-cleared tokens succeed silently.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.users.ClearRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("error clearing refresh token: %w", err)
	}
	return nil
}

// ValidateAccessToken verifies an access token and returns its subject
// (the user's email). No store lookup is involved.
func (s *UserService) ValidateAccessToken(tokenString string) (string, error) {
	return auth.GetSubjectFromToken(tokenString, s.jwtSecret, s.jwtIssuer, s.jwtAudience)
}

func (s *UserService) generateAccessToken(email string) (string, error) {
	return auth.GenerateAccessToken(email, s.jwtSecret, s.jwtIssuer, s.jwtAudience, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandBase64String(refreshTokenBytes)
}
