package services

import (
	"context"
	"errors"
	"strings"

	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/logger"
	"bondmatch/internal/tokenstore"
)

// ResetNotifier delivers a reset code to the account owner.
type ResetNotifier interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// LogNotifier writes reset codes to the application log. It stands in for a
// mail sender in development.
type LogNotifier struct{}

// SendResetCode logs the code at debug level.
func (LogNotifier) SendResetCode(_ context.Context, email, code string) error {
	logger.Get().Debugw("password reset code issued", "email", email, "code", code)
	return nil
}

// passwordResetService issues and redeems reset codes held in an expiring store.
type passwordResetService struct {
	users    UserServicer
	codes    *tokenstore.Store
	notifier ResetNotifier
}

// NewPasswordResetService creates a new PasswordResetServicer.
func NewPasswordResetService(users UserServicer, codes *tokenstore.Store, notifier ResetNotifier) PasswordResetServicer {
	return &passwordResetService{users: users, codes: codes, notifier: notifier}
}

// RequestReset issues a code for email. Unknown emails succeed silently so
// callers cannot probe which accounts exist.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "email is required")
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return err
	}

	code, err := s.codes.Issue(user.Email)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.notifier.SendResetCode(ctx, user.Email, code); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ResetPassword consumes code and sets the new password. A code is valid
// once and only until it expires.
func (s *passwordResetService) ResetPassword(_ context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(newPassword) < minPasswordLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}

	if !s.codes.Consume(email, strings.TrimSpace(code)) {
		return apperrors.ErrInvalidResetCode
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrInvalidResetCode
		}
		return err
	}
	return s.users.UpdatePassword(user.ID, newPassword)
}
