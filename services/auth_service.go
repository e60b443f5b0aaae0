package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-admin/models"
	"hotel-admin/utils"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Principal `json:"user"`
}

type AuthService struct {
	DB     *gorm.DB
	tokens *utils.TokenIssuer
	access *AccessService
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenIssuer, access *AccessService) *AuthService {
	return &AuthService{DB: db, tokens: tokens, access: access}
}

// SignIn checks the credentials of a staff or admin account and issues a token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	var u models.User
	if err := s.DB.WithContext(ctx).Where("LOWER(email) = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("find account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		zerolog.Ctx(ctx).Info().Str("email", utils.MaskEmail(email)).Msg("sign-in rejected: bad password")
		return Session{}, ErrInvalidCredentials
	}
	if !u.Role.IsStaff() {
		return Session{}, ErrNotStaff
	}
	if u.Status != models.StatusActive {
		return Session{}, ErrAccountInactive
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return Session{}, err
	}

	now := time.Now()
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", u.ID).Update("last_login", now).Error; err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Uint("user_id", u.ID).Msg("failed to record last login")
	}
	s.access.Invalidate(ctx, u.ID)

	return Session{Token: token, ExpiresAt: expiresAt, User: ResolvePrincipal(u)}, nil
}

// ChangePassword replaces the caller's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if len(next) < 6 {
		return newValidationError("newPassword", "must be at least 6 characters")
	}

	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
