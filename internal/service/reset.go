package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkpost/inkpost-go/internal/crypto"
	"github.com/inkpost/inkpost-go/internal/mailer"
	"github.com/inkpost/inkpost-go/internal/repository"
)

var (
	ErrResetUserNotFound = errors.New("no account with that email")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrMailDelivery      = errors.New("could not send reset email")
)

// ResetService implements the password-reset flow. It authenticates by
// possession of an emailed token rather than by session state, so a user
// locked out of every session can still regain access.
type ResetService struct {
	users       UserStore
	mailer      Mailer
	baseURL     string
	mailTimeout time.Duration
	logger      *slog.Logger
}

// NewResetService creates a new ResetService.
func NewResetService(users UserStore, m Mailer, baseURL string, mailTimeout time.Duration, logger *slog.Logger) *ResetService {
	return &ResetService{
		users:       users,
		mailer:      m,
		baseURL:     baseURL,
		mailTimeout: mailTimeout,
		logger:      logger,
	}
}

// RequestReset generates a fresh reset token for the account with the given
// email, persists it, and mails a reset link. A second request overwrites
// the previous token, so at most one link is valid at any time. When mail
// delivery fails the token stays set and a retry replaces it.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrResetUserNotFound
		}
		return err
	}

	token, err := crypto.NewToken(crypto.ResetTokenBytes)
	if err != nil {
		return err
	}

	if err := s.users.SetResetToken(ctx, user.ID, token); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.baseURL, token)
	subject, body := mailer.PasswordResetEmail(link)

	mailCtx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()

	if err := s.mailer.Send(mailCtx, user.Email, subject, body); err != nil {
		s.logger.Error("reset mail delivery failed", "error", err)
		return ErrMailDelivery
	}

	return nil
}

// ConsumeReset validates a reset token and changes the password. Token
// existence is checked before the match check so the two failures stay
// consistently ordered; a password mismatch leaves the token pending.
func (s *ResetService) ConsumeReset(ctx context.Context, token, newPassword, confirmPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if newPassword == "" {
		return ErrPasswordRequired
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// Stores the new hash and clears the token in one statement.
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info("password reset completed", "user_id", user.ID)
	return nil
}
