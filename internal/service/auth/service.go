package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

const (
	statusActive  = "Active"
	statusBlocked = "Blocked"

	minPasswordLength = 8
)

// Config holds the token settings and the bootstrap admin list
type Config struct {
	Secret          string
	AccessDuration  time.Duration
	RefreshDuration time.Duration
	AdminEmails     []string
}

type Service struct {
	userRepo    ports.UserRepository
	tokens      *tokenIssuer
	adminEmails map[string]bool
	log         *zap.Logger
}

func NewService(userRepo ports.UserRepository, cache ports.Cache, cfg Config, log *zap.Logger) *Service {
	if cfg.AccessDuration <= 0 {
		cfg.AccessDuration = 15 * time.Minute
	}
	if cfg.RefreshDuration <= 0 {
		cfg.RefreshDuration = 7 * 24 * time.Hour
	}

	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		admins[normalizeEmail(e)] = true
	}

	log.Info("Auth service initialized",
		zap.Duration("access_duration", cfg.AccessDuration),
		zap.Duration("refresh_duration", cfg.RefreshDuration),
		zap.Int("admin_emails", len(admins)),
	)

	return &Service{
		userRepo:    userRepo,
		tokens:      newTokenIssuer(cfg.Secret, cfg.AccessDuration, cfg.RefreshDuration, cache, log),
		adminEmails: admins,
		log:         log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", "", fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return "", "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if user.Status == statusBlocked {
		return "", "", fmt.Errorf("%w: account blocked", domain.ErrForbidden)
	}

	return s.generateTokens(user)
}

func (s *Service) Register(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)
	user.Name = strings.TrimSpace(user.Name)
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return domain.NewInvalidInput("email", "must be a valid address")
	}
	if len(user.Password) < minPasswordLength {
		return domain.NewInvalidInput("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	existing, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	user.ID = uuid.New().String()
	user.Password = string(hashedPwd)
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Role = domain.UserRoleUser
	if s.adminEmails[user.Email] {
		user.Role = domain.UserRoleAdmin
	}
	user.Status = statusActive

	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	s.log.Info("User registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return "", err
	}

	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		return "", err
	}

	return s.tokens.issue(user, tokenTypeAccess)
}

// Logout deny-lists the access token until it expires
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.parse(token, tokenTypeAccess)
	if err != nil {
		return err
	}
	return s.tokens.revoke(ctx, claims)
}

func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	claims, err := s.tokens.parse(tokenStr, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	return s.activeUser(ctx, claims.Subject)
}

func (s *Service) checkRevoked(ctx context.Context, claims *Claims) error {
	revoked, err := s.tokens.revoked(ctx, claims)
	if err != nil {
		s.log.Error("Token revocation check failed", zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if revoked {
		return fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
	}
	return nil
}

func (s *Service) activeUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", domain.ErrUnauthorized)
	}
	if user.Status == statusBlocked {
		return nil, fmt.Errorf("%w: account blocked", domain.ErrForbidden)
	}
	return user, nil
}

func (s *Service) generateTokens(user *domain.User) (string, string, error) {
	accessToken, err := s.tokens.issue(user, tokenTypeAccess)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := s.tokens.issue(user, tokenTypeRefresh)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
