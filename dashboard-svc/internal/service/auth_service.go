package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	otpTTL         = 10 * time.Minute
)

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	AccountID   string    `json:"account_id"`
}

type AuthService struct {
	accounts   AccountRepository
	images     ImageStore
	tokens     *session.TokenIssuer
	revoker    TokenRevoker
	identities IdentityInvalidator
	otps       OTPStore
	sender     OTPSender
	logger     *zap.Logger
	now        func() time.Time
}

func NewAuthService(
	accounts AccountRepository,
	images ImageStore,
	tokens *session.TokenIssuer,
	revoker TokenRevoker,
	identities IdentityInvalidator,
	otps OTPStore,
	sender OTPSender,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   accounts,
		images:     images,
		tokens:     tokens,
		revoker:    revoker,
		identities: identities,
		otps:       otps,
		sender:     sender,
		logger:     logger,
		now:        time.Now,
	}
}

func validateRegistration(reg domain.Registration, image *Upload) error {
	switch {
	case strings.TrimSpace(reg.Username) == "":
		return invalid("username", "is required")
	case strings.TrimSpace(reg.Email) == "":
		return invalid("email", "is required")
	case !strings.Contains(reg.Email, "@"):
		return invalid("email", "is not a valid address")
	case strings.TrimSpace(reg.RestaurantName) == "":
		return invalid("restaurant_name", "is required")
	case strings.TrimSpace(reg.Subtitle) == "":
		return invalid("subtitle", "is required")
	case image == nil:
		return invalid("image", "is required")
	}
	return validatePassword(reg.Password, reg.ConfirmPassword)
}

func validatePassword(password, confirm string) error {
	if len(password) < minPasswordLen {
		return invalid("password", "must be at least 6 characters")
	}
	if password != confirm {
		return invalid("confirm_password", "does not match")
	}
	return nil
}

// Register creates the owner account together with its restaurant. The image
// is stored first; a failed upload creates nothing.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration, image *Upload) (*domain.Restaurant, error) {
	if err := validateRegistration(reg, image); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ref, err := s.images.Save(ctx, restaurantImageFolder, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	owner := &domain.Owner{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(reg.Username),
		Email:        normalizeEmail(reg.Email),
		PasswordHash: string(hash),
	}
	rest := &domain.Restaurant{
		OwnerID:  owner.ID,
		Title:    strings.TrimSpace(reg.RestaurantName),
		Subtitle: strings.TrimSpace(reg.Subtitle),
		Image:    ref,
		IsOpen:   true,
	}
	if err := s.accounts.CreateOwnerWithRestaurant(ctx, owner, rest); err != nil {
		return nil, err
	}

	s.logger.Info("owner registered", zap.String("account_id", owner.ID), zap.Int("restaurant_id", rest.ID))
	return rest, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Token, error) {
	owner, err := s.accounts.OwnerByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	s.invalidateIdentity(ctx, owner.ID)
	return s.issue(owner.ID)
}

func (s *AuthService) SignOut(ctx context.Context, claims *session.Claims) error {
	if err := s.revoker.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.invalidateIdentity(ctx, claims.AccountID())
	return nil
}

// Refresh swaps a live token for a new one and re-resolves the identity.
func (s *AuthService) Refresh(ctx context.Context, claims *session.Claims) (*Token, error) {
	token, err := s.issue(claims.AccountID())
	if err != nil {
		return nil, err
	}
	if err := s.revoker.Revoke(ctx, claims); err != nil {
		return nil, fmt.Errorf("revoke token: %w", err)
	}
	s.invalidateIdentity(ctx, claims.AccountID())
	return token, nil
}

// ChangePassword sets a new password and signs the account out everywhere.
func (s *AuthService) ChangePassword(ctx context.Context, claims *session.Claims, password, confirm string) error {
	if err := validatePassword(password, confirm); err != nil {
		return err
	}
	return s.setPassword(ctx, claims.AccountID(), password)
}

// RequestPasswordReset sends a one-time code when the email is registered.
// Unknown emails succeed silently.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return invalid("email", "is not a valid address")
	}

	_, err := s.accounts.OwnerByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		s.logger.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	code, err := newOTP()
	if err != nil {
		return err
	}
	if err := s.otps.SaveOTP(ctx, email, code, otpTTL); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	return s.sender.SendRecoveryCode(ctx, email, code)
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, password, confirm string) error {
	if err := validatePassword(password, confirm); err != nil {
		return err
	}
	email = normalizeEmail(email)

	stored, err := s.otps.OTP(ctx, email)
	if err != nil {
		return fmt.Errorf("load reset code: %w", err)
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return ErrInvalidOTP
	}

	owner, err := s.accounts.OwnerByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return ErrInvalidOTP
	}
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, owner.ID, password); err != nil {
		return err
	}
	if err := s.otps.DeleteOTP(ctx, email); err != nil {
		s.logger.Warn("reset code cleanup failed", zap.Error(err))
	}
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, accountID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, accountID, string(hash)); err != nil {
		return err
	}
	if err := s.revoker.RevokeAll(ctx, accountID, s.now(), s.tokens.TTL()); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	s.invalidateIdentity(ctx, accountID)
	s.logger.Info("password changed", zap.String("account_id", accountID))
	return nil
}

func (s *AuthService) issue(accountID string) (*Token, error) {
	raw, claims, err := s.tokens.Issue(accountID)
	if err != nil {
		return nil, err
	}
	return &Token{
		AccessToken: raw,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		AccountID:   accountID,
	}, nil
}

func (s *AuthService) invalidateIdentity(ctx context.Context, accountID string) {
	if s.identities == nil {
		return
	}
	if err := s.identities.Invalidate(ctx, accountID); err != nil {
		s.logger.Warn("identity cache invalidation failed", zap.String("account_id", accountID), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// LogOTPSender delivers recovery codes to the service log.
type LogOTPSender struct {
	Logger *zap.Logger
}

func (s LogOTPSender) SendRecoveryCode(ctx context.Context, email, code string) error {
	s.Logger.Info("password recovery code issued", zap.String("email", email), zap.String("code", code))
	return nil
}
