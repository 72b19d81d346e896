// Package settings manages the mess-wide billing settings singleton.
package settings

import (
	"context"

	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/internal/store"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
)

type Service struct {
	catalog *records.Catalog
	logg    *logger.Logger
}

func NewService(catalog *records.Catalog, logg *logger.Logger) *Service {
	return &Service{catalog: catalog, logg: logg}
}

// Get returns the stored settings. Before the first write it substitutes the
// zero default (fee 0, empty rules) instead of reporting NotFound, so due
// seeding never fails on a fresh install.
func (s *Service) Get(ctx context.Context) (records.SettingsRecord, error) {
	rec, err := s.catalog.Settings.Get(ctx, records.SettingsKey)
	if err != nil {
		if store.IsNotFound(err) {
			return records.SettingsRecord{}, nil
		}
		return records.SettingsRecord{}, err
	}
	return rec, nil
}

// Update replaces the settings, creating the singleton on first write.
func (s *Service) Update(ctx context.Context, rec records.SettingsRecord) (records.SettingsRecord, error) {
	if rec.MonthlyFee.IsNegative() {
		return records.SettingsRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "monthly fee cannot be negative")
	}

	err := s.catalog.Settings.Create(ctx, rec)
	if err == nil {
		s.logg.Info(s.logg.WithField(ctx, "monthly_fee", rec.MonthlyFee.String()), "settings created")
		return rec, nil
	}
	if !store.IsAlreadyExists(err) {
		return records.SettingsRecord{}, err
	}

	updated, err := s.catalog.Settings.Patch(ctx, records.SettingsKey, map[string]any{
		"monthlyFee": rec.MonthlyFee,
		"rules":      rec.Rules,
	})
	if err != nil {
		return records.SettingsRecord{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "monthly_fee", updated.MonthlyFee.String()), "settings updated")
	return updated, nil
}
