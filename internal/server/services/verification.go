package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/mail"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/timex"
)

const (
	subjectVerifyEmail    = "verify email address"
	subjectForgotPassword = "password recovery"
)

type EmailInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// VerificationService issues and consumes the mailed single-use tokens:
// email verification and password reset.
type VerificationService struct {
	Deps

	verifyEmailURL    string
	forgotPasswordURL string
	verifyEmailHours  int
	resetPasswordDays int
}

func NewVerificationService(d Deps, cfg *config.Config) *VerificationService {
	return &VerificationService{
		Deps:              d,
		verifyEmailURL:    cfg.VerifyEmailURL,
		forgotPasswordURL: cfg.ForgotPasswordURL,
		verifyEmailHours:  cfg.VerifyEmailTokenValidityHours,
		resetPasswordDays: cfg.ResetPasswordTokenValidityDays,
	}
}

// SendVerifyEmail mails a verification link to a registered address.
func (s *VerificationService) SendVerifyEmail(ctx context.Context, in EmailInput) (res Result[bool], err error) {
	defer func() { s.Metrics.RecordOperation("send_verify_email", outcome(res.IsRight(), err)) }()

	if f := s.Validator.Check(in); f != nil {
		return left[bool](f)
	}

	user, f, err := s.findUserByEmail(ctx, in.Email)
	if f != nil || err != nil {
		return leftOrFault[bool](f, err)
	}

	token, err := s.issue(ctx, user.ID, models.TokenKindVerifyEmail, s.Clock.AddHours(s.verifyEmailHours))
	if err != nil {
		return fault[bool](err)
	}

	s.send(ctx, user, subjectVerifyEmail, s.verifyEmailURL+token, mail.TemplateVerifyEmail)
	return right(true)
}

// SendForgotPasswordEmail mails a reset link. Only verified addresses may
// reset their password.
func (s *VerificationService) SendForgotPasswordEmail(ctx context.Context, in EmailInput) (res Result[bool], err error) {
	defer func() { s.Metrics.RecordOperation("send_forgot_password_email", outcome(res.IsRight(), err)) }()

	if f := s.Validator.Check(in); f != nil {
		return left[bool](f)
	}

	user, f, err := s.findUserByEmail(ctx, in.Email)
	if f != nil || err != nil {
		return leftOrFault[bool](f, err)
	}
	if !user.IsVerified {
		return left[bool](common.EmailNotVerified("reset password"))
	}

	token, err := s.issue(ctx, user.ID, models.TokenKindResetPassword, s.Clock.AddDays(s.resetPasswordDays))
	if err != nil {
		return fault[bool](err)
	}

	s.send(ctx, user, subjectForgotPassword, s.forgotPasswordURL+token, mail.TemplateForgotPassword)
	return right(true)
}

// VerifyEmail spends a verification token and marks its owner verified.
func (s *VerificationService) VerifyEmail(ctx context.Context, token string) (res Result[bool], err error) {
	defer func() { s.Metrics.RecordOperation("verify_email", outcome(res.IsRight(), err)) }()

	token = strings.TrimSpace(token)
	if token == "" {
		return left[bool](common.MissingParam("Token missing on the route query"))
	}

	row, f, err := s.findLiveToken(ctx, token, models.TokenKindVerifyEmail)
	if f != nil || err != nil {
		return leftOrFault[bool](f, err)
	}

	var failure *common.Failure
	err = s.Tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if f, err := s.consume(ctx, tx, row); f != nil || err != nil {
			failure = f
			return err
		}

		err := s.Repos.Users(tx).MarkEmailVerified(ctx, row.UserID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error verifying user: %w", err)
		}
		return nil
	})
	if failure != nil {
		return left[bool](failure)
	}
	if err != nil {
		return fault[bool](err)
	}

	s.Log.Info(ctx, "email verified", "user_id", row.UserID)
	return right(true)
}

// ResetPassword spends a reset token and replaces its owner's password. An
// invalid or expired token leaves the stored digest untouched.
func (s *VerificationService) ResetPassword(ctx context.Context, in ResetPasswordInput) (res Result[bool], err error) {
	defer func() { s.Metrics.RecordOperation("reset_password", outcome(res.IsRight(), err)) }()

	in.Token = strings.ReplaceAll(in.Token, "\n", "")
	if f := s.Validator.Check(in); f != nil {
		return left[bool](f)
	}

	row, f, err := s.findLiveToken(ctx, in.Token, models.TokenKindResetPassword)
	if f != nil || err != nil {
		return leftOrFault[bool](f, err)
	}

	if _, err := s.Repos.Users(s.Tx.Conn()).FindByID(ctx, row.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return left[bool](common.ErrUserNotFound)
		}
		return fault[bool](fmt.Errorf("error searching user: %w", err))
	}

	digest, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return fault[bool](fmt.Errorf("error hashing password: %w", err))
	}

	var failure *common.Failure
	err = s.Tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if f, err := s.consume(ctx, tx, row); f != nil || err != nil {
			failure = f
			return err
		}

		if err := s.Repos.Users(tx).UpdatePassword(ctx, row.UserID, digest); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				failure = common.ErrUserNotFound
				return errRollback
			}
			return fmt.Errorf("error updating password: %w", err)
		}
		return nil
	})
	if failure != nil {
		return left[bool](failure)
	}
	if err != nil {
		return fault[bool](err)
	}

	s.Log.Info(ctx, "password reset", "user_id", row.UserID)
	return right(true)
}

// consume deletes the token row before anything else in the transaction
// runs. Only the caller that deletes the row may mutate the user, which keeps
// the token single-use on stores that cannot roll back.
func (s *VerificationService) consume(ctx context.Context, tx dbx.DBTX, row *models.UserToken) (*common.Failure, error) {
	deleted, err := s.Repos.UserTokens(tx).DeleteByID(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("error deleting token: %w", err)
	}
	if !deleted {
		return common.ErrInvalidToken, errRollback
	}
	return nil, nil
}

func (s *VerificationService) findUserByEmail(ctx context.Context, email string) (*models.User, *common.Failure, error) {
	user, err := s.Repos.Users(s.Tx.Conn()).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound, nil
		}
		return nil, nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil, nil
}

// findLiveToken looks a mailed token up and rejects it when it is unknown,
// issued for another flow, or expired.
func (s *VerificationService) findLiveToken(ctx context.Context, token string, kind models.TokenKind) (*models.UserToken, *common.Failure, error) {
	row, err := s.Repos.UserTokens(s.Tx.Conn()).FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken, nil
		}
		return nil, nil, fmt.Errorf("error searching token: %w", err)
	}
	if row.Kind != kind || timex.Expired(s.Clock, row.ExpiresAt) {
		return nil, common.ErrInvalidToken, nil
	}
	return row, nil, nil
}

func (s *VerificationService) issue(ctx context.Context, userID string, kind models.TokenKind, expiresAt time.Time) (string, error) {
	token := auth.NewOpaqueToken()
	_, err := s.Repos.UserTokens(s.Tx.Conn()).Create(ctx, &models.UserToken{
		UserID:    userID,
		Kind:      kind,
		Token:     token,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", fmt.Errorf("error saving %s token: %w", kind, err)
	}
	s.Metrics.RecordTokenIssued(string(kind))
	return token, nil
}

// send delivers the mail. A delivery failure is logged only; the issued
// token stays valid.
func (s *VerificationService) send(ctx context.Context, user *models.User, subject, link, tmpl string) {
	vars := map[string]string{"name": user.Name, "link": link}
	if err := s.Mailer.SendMail(ctx, user.Email, subject, vars, tmpl); err != nil {
		logging.LogError(ctx, s.Log.With("user_id", user.ID), "mail dispatch failed", err)
	}
}
