package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wasihun-code/goblog/internal/domain/entity"
	repo "github.com/wasihun-code/goblog/internal/domain/repository"
	"github.com/wasihun-code/goblog/pkg/helpers"
	"github.com/wasihun-code/goblog/pkg/validation"
)

// ResetService runs the password reset flow: request, verify, complete.
// Tokens are signed and time limited but not single use; a token keeps
// working until it expires.
type ResetService struct {
	Users    repo.UserRepository
	JWT      *helpers.JWTManager
	Notifier Notifier
	Logger   *logrus.Logger
	// LinkFor builds the absolute reset URL for a token.
	LinkFor func(token string) string
}

func NewResetService(users repo.UserRepository, jwt *helpers.JWTManager, notifier Notifier, linkFor func(string) string, logger *logrus.Logger) *ResetService {
	return &ResetService{Users: users, JWT: jwt, Notifier: notifier, LinkFor: linkFor, Logger: logger}
}

type ResetRequest struct {
	Email     string `json:"email" form:"email" validate:"required,email"`
	IP        string `json:"-" form:"-"`
	UserAgent string `json:"-" form:"-"`
}

type ResetPasswordInput struct {
	Password        string `json:"password" form:"password" validate:"required,pwd"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
}

// RequestReset issues a reset token for the account behind in.Email and hands
// it to the notifier. The outcome is the same whether or not the account
// exists: unknown addresses and delivery failures both return nil. Only a
// malformed address or a storage failure is reported.
func (s *ResetService) RequestReset(ctx context.Context, in ResetRequest) error {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in).Err(); err != nil {
		return err
	}

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if errors.Is(err, repo.ErrNotFound) {
		helpers.LogInfo(s.Logger, "reset requested for unknown email", logrus.Fields{"ip": in.IP})
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	token, exp, err := s.JWT.GenerateResetToken(u.ID)
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}

	if s.Notifier == nil {
		helpers.LogInfo(s.Logger, "no reset notifier configured", logrus.Fields{"user_id": u.ID})
		return nil
	}
	msg := ResetMessage{
		User:      u,
		Token:     token,
		Link:      s.link(token),
		ExpiresAt: exp,
		IP:        in.IP,
		UserAgent: in.UserAgent,
	}
	if err := s.Notifier.SendReset(ctx, msg); err != nil {
		helpers.LogError(s.Logger, "send reset failed", err, logrus.Fields{"user_id": u.ID})
	}
	return nil
}

func (s *ResetService) link(token string) string {
	if s.LinkFor == nil {
		return "/reset_password/" + token
	}
	return s.LinkFor(token)
}

// VerifyToken resolves a reset token to its user. Every failure, including a
// token for a user that no longer exists, is ErrInvalidToken.
func (s *ResetService) VerifyToken(ctx context.Context, token string) (*entity.User, error) {
	uid, err := s.JWT.ParseResetToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.Users.GetByID(ctx, uid)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// CompleteReset re-verifies token and overwrites the user's password hash.
func (s *ResetService) CompleteReset(ctx context.Context, token string, in ResetPasswordInput) error {
	u, err := s.VerifyToken(ctx, token)
	if err != nil {
		return err
	}
	if err := validation.Struct(in).Err(); err != nil {
		return err
	}
	hash, err := helpers.HashPassword(in.Password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return validation.Errors{"password": "Field cannot be longer than 72 characters."}
	}
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("update password: %w", err)
	}
	helpers.LogInfo(s.Logger, "password reset", logrus.Fields{"user_id": u.ID})
	return nil
}
