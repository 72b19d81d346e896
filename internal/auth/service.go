// Package auth handles portal registration and login.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/internal/store"
	pkgauth "github.com/anandbhagyawant/messconnect-backend/pkg/auth"
	"github.com/anandbhagyawant/messconnect-backend/pkg/config"
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/anandbhagyawant/messconnect-backend/pkg/security"
)

type Service struct {
	catalog *records.Catalog
	jwtCfg  config.JWTConfig
	pwCfg   config.PasswordConfig
	logg    *logger.Logger
	nowFn   func() time.Time
}

func NewService(catalog *records.Catalog, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger, nowFn func() time.Time) *Service {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Service{catalog: catalog, jwtCfg: jwtCfg, pwCfg: pwCfg, logg: logg, nowFn: nowFn}
}

type RegisterInput struct {
	Email    string
	Name     string
	Phone    string
	Password string
}

// Register creates a pending student account. The email is the account id;
// a duplicate registration reports a conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (records.PublicUser, error) {
	email := normalizeEmail(in.Email)

	hash, err := security.HashPassword(in.Password, s.pwCfg)
	if err != nil {
		return records.PublicUser{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := records.UserRecord{
		ID:           email,
		Email:        email,
		Name:         in.Name,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         enums.UserRoleStudent,
		Status:       enums.UserStatusPending,
		CreatedAt:    s.nowFn().UTC().UnixMilli(),
	}
	if err := s.catalog.Users.Create(ctx, user); err != nil {
		if store.IsAlreadyExists(err) {
			return records.PublicUser{}, pkgerrors.New(pkgerrors.CodeAlreadyExists, "email already registered")
		}
		return records.PublicUser{}, err
	}

	s.logg.Info(s.logg.WithUserID(ctx, email), "student registered")
	return user.Public(), nil
}

// LoginResult pairs the access token with the account it represents.
type LoginResult struct {
	Token string             `json:"token"`
	User  records.PublicUser `json:"user"`
}

// Login verifies credentials and mints a role-scoped JWT. Unknown emails and
// wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.catalog.Users.Get(ctx, normalizeEmail(email))
	if err != nil {
		if store.IsNotFound(err) {
			return LoginResult{}, invalidCredentials()
		}
		return LoginResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return LoginResult{}, invalidCredentials()
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.nowFn(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "login succeeded")
	return LoginResult{Token: token, User: user.Public()}, nil
}

func invalidCredentials() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
