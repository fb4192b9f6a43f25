package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/gevapp/gevapp/internal/shared"
)

const resetKeyPrefix = "auth:reset:"

// MailEnqueuer schedules the password reset email for delivery.
type MailEnqueuer interface {
	EnqueuePasswordReset(ctx context.Context, email, token string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	redis    *redis.Client
	tokens   *TokenManager
	mail     MailEnqueuer
	logger   *slog.Logger
	validate *validator.Validate
	resetTTL time.Duration
}

// NewService constructs a Service.
func NewService(repo Repository, rdb *redis.Client, tokens *TokenManager, mail MailEnqueuer, logger *slog.Logger, resetTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		redis:    rdb,
		tokens:   tokens,
		mail:     mail,
		logger:   logger,
		validate: validator.New(),
		resetTTL: resetTTL,
	}
}

// Register creates a new account with a bcrypt hashed password.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash senha: %w", err)
	}

	id, err := s.repo.Create(ctx, req.Nome, req.Email, string(hash))
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Login validates credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.Senha)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: token, User: *user}, nil
}

// ForgotPassword stores an opaque reset token and schedules the email.
// Unknown emails succeed silently so the endpoint does not leak accounts.
func (s *Service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("password reset for unknown email ignored")
			return nil
		}
		return err
	}

	token := uuid.NewString()
	key := resetKeyPrefix + token
	if err := s.redis.Set(ctx, key, strconv.FormatInt(user.ID, 10), s.resetTTL).Err(); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if s.mail != nil {
		if err := s.mail.EnqueuePasswordReset(ctx, user.Email, token); err != nil {
			s.logger.Error("enqueue reset mail failed", "error", err)
		}
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new bcrypt hash.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	key := resetKeyPrefix + req.Token
	raw, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return shared.ErrInvalidOrExpiredToken
	}
	if err != nil {
		return fmt.Errorf("load reset token: %w", err)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return shared.ErrInvalidOrExpiredToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NovaSenha), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash senha: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	return s.redis.Del(ctx, key).Err()
}
