// Package bootstrap seeds the fixed operator accounts at startup.
package bootstrap

import (
	"context"
	"time"

	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/internal/store"
	"github.com/anandbhagyawant/messconnect-backend/pkg/config"
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/anandbhagyawant/messconnect-backend/pkg/security"
)

type Service struct {
	catalog *records.Catalog
	cfg     config.BootstrapConfig
	pwCfg   config.PasswordConfig
	logg    *logger.Logger
}

func NewService(catalog *records.Catalog, cfg config.BootstrapConfig, pwCfg config.PasswordConfig, logg *logger.Logger) *Service {
	return &Service{catalog: catalog, cfg: cfg, pwCfg: pwCfg, logg: logg}
}

// Seed creates the admin and manager accounts if they are missing. Runs once
// at startup, idempotently: existing accounts are left untouched, including
// any password they were changed to.
func (s *Service) Seed(ctx context.Context) error {
	hash, err := security.HashPassword(s.cfg.DefaultPassword, s.pwCfg)
	if err != nil {
		return err
	}

	accounts := []records.UserRecord{
		{
			ID:           s.cfg.AdminEmail,
			Email:        s.cfg.AdminEmail,
			Name:         "Admin",
			Role:         enums.UserRoleAdmin,
			Status:       enums.UserStatusApproved,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC().UnixMilli(),
		},
		{
			ID:           s.cfg.ManagerEmail,
			Email:        s.cfg.ManagerEmail,
			Name:         "Mess Manager",
			Role:         enums.UserRoleManager,
			Status:       enums.UserStatusApproved,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC().UnixMilli(),
		},
	}

	for _, account := range accounts {
		err := s.catalog.Users.Create(ctx, account)
		if err == nil {
			s.logg.Info(s.logg.WithField(ctx, "account", account.Email), "operator account seeded")
			continue
		}
		if store.IsAlreadyExists(err) {
			continue
		}
		return err
	}
	return nil
}
