package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair bundles a short-lived access token and a refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session is the result of a successful login.
type Session struct {
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	User         models.PublicUser `json:"user"`
}

// UserService handles registration, login and refresh-token rotation.
type UserService struct {
	Deps

	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshDays   int
}

func NewUserService(d Deps, cfg *config.Config) *UserService {
	return &UserService{
		Deps:          d,
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenValidityDuration,
		refreshDays:   cfg.RefreshTokenValidityDays,
	}
}

// Register creates an unverified account. Input is validated before the
// store is touched.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (res Result[*models.User], err error) {
	defer func() { s.Metrics.RecordOperation("register", outcome(res.IsRight(), err)) }()

	if f := s.Validator.Check(in); f != nil {
		return left[*models.User](f)
	}

	users := s.Repos.Users(s.Tx.Conn())

	_, err = users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return left[*models.User](common.EmailAlreadyInUse(in.Email))
	case !errors.Is(err, common.ErrorNotFound):
		return fault[*models.User](fmt.Errorf("error searching user: %w", err))
	}

	digest, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return fault[*models.User](fmt.Errorf("error hashing password: %w", err))
	}

	user, err := users.Create(ctx, &models.User{Name: in.Name, Email: in.Email, Password: digest})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return left[*models.User](common.EmailAlreadyInUse(in.Email))
		}
		return fault[*models.User](fmt.Errorf("error creating user: %w", err))
	}

	s.Log.Info(ctx, "user registered", "user_id", user.ID)
	return right(user)
}

// Login checks the credentials and opens a session. An unknown email and a
// wrong password produce the same failure.
func (s *UserService) Login(ctx context.Context, in LoginInput) (res Result[*Session], err error) {
	defer func() { s.Metrics.RecordOperation("login", outcome(res.IsRight(), err)) }()

	if f := s.Validator.Check(in); f != nil {
		return left[*Session](f)
	}

	conn := s.Tx.Conn()

	user, err := s.Repos.Users(conn).FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return left[*Session](common.ErrEmailOrPasswordInvalid)
		}
		return fault[*Session](fmt.Errorf("error searching user: %w", err))
	}

	ok, err := s.Hasher.Compare(in.Password, user.Password)
	if err != nil {
		return fault[*Session](fmt.Errorf("error comparing password: %w", err))
	}
	if !ok {
		return left[*Session](common.ErrEmailOrPasswordInvalid)
	}

	pair, err := s.issueTokenPair(ctx, conn, user.ID, user.Email)
	if err != nil {
		return fault[*Session](err)
	}

	return right(&Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Public(),
	})
}

// RefreshToken spends a refresh token and returns a new pair. The old row is
// deleted in the same transaction that stores the new one; of two requests
// racing with the same token only one sees its DELETE hit a row.
func (s *UserService) RefreshToken(ctx context.Context, token string) (res Result[*TokenPair], err error) {
	defer func() { s.Metrics.RecordOperation("refresh_token", outcome(res.IsRight(), err)) }()

	token = strings.TrimSpace(token)
	if token == "" {
		return left[*TokenPair](common.MissingParam("Missing token"))
	}

	if !s.Codec.Verify(token, s.refreshSecret) {
		return left[*TokenPair](common.ErrInvalidRefreshToken)
	}

	claims, err := s.Codec.Decode(token)
	if err != nil {
		return left[*TokenPair](common.ErrInvalidRefreshToken)
	}
	userID := claims.Subject

	var (
		failure *common.Failure
		pair    *TokenPair
	)

	err = s.Tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.Repos.UserTokens(tx)

		row, err := tokens.FindByUserIDAndToken(ctx, userID, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				failure = common.ErrUserTokenDoesNotExist
				return errRollback
			}
			return fmt.Errorf("error searching refresh token: %w", err)
		}
		if row.Kind != models.TokenKindRefresh {
			failure = common.ErrUserTokenDoesNotExist
			return errRollback
		}

		deleted, err := tokens.DeleteByID(ctx, row.ID)
		if err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		if !deleted {
			failure = common.ErrUserTokenDoesNotExist
			return errRollback
		}

		pair, err = s.issueTokenPair(ctx, tx, userID, claims.Email)
		return err
	})
	if failure != nil {
		return left[*TokenPair](failure)
	}
	if err != nil {
		return fault[*TokenPair](err)
	}

	return right(pair)
}

// issueTokenPair mints an access and a refresh token for the user and stores
// the refresh token through db.
func (s *UserService) issueTokenPair(ctx context.Context, db dbx.DBTX, userID, email string) (*TokenPair, error) {
	claims := auth.Claims{UserID: userID, Email: email}

	access, err := s.Codec.CreateToken(claims, s.accessTTL, s.accessSecret, userID)
	if err != nil {
		return nil, fmt.Errorf("error creating access token: %w", err)
	}

	refresh, err := s.Codec.CreateToken(claims, daysToDuration(s.refreshDays), s.refreshSecret, userID)
	if err != nil {
		return nil, fmt.Errorf("error creating refresh token: %w", err)
	}

	_, err = s.Repos.UserTokens(db).Create(ctx, &models.UserToken{
		UserID:    userID,
		Kind:      models.TokenKindRefresh,
		Token:     refresh,
		ExpiresAt: s.Clock.AddDays(s.refreshDays),
	})
	if err != nil {
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}
	s.Metrics.RecordTokenIssued(string(models.TokenKindRefresh))

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
