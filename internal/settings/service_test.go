package settings_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/internal/settings"
	"github.com/anandbhagyawant/messconnect-backend/internal/store"
	"github.com/anandbhagyawant/messconnect-backend/pkg/db/models"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newService(t *testing.T) *settings.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.EntityRecord{}, &models.EntityIndexEntry{}))

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return settings.NewService(records.NewCatalog(store.New(gdb)), logg)
}

func TestGetDefaultsBeforeFirstWrite(t *testing.T) {
	svc := newService(t)

	cfg, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.MonthlyFee.IsZero())
	assert.Empty(t, cfg.Rules)
}

func TestUpdateThenGet(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, records.SettingsRecord{
		MonthlyFee: decimal.NewFromInt(2500),
		Rules:      "No outside food.",
	})
	require.NoError(t, err)

	cfg, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.MonthlyFee.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, "No outside food.", cfg.Rules)
}

func TestUpdateOverwrites(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, records.SettingsRecord{MonthlyFee: decimal.NewFromInt(2000)})
	require.NoError(t, err)
	_, err = svc.Update(ctx, records.SettingsRecord{MonthlyFee: decimal.NewFromInt(2200)})
	require.NoError(t, err)

	cfg, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.MonthlyFee.Equal(decimal.NewFromInt(2200)))
}

func TestUpdateRejectsNegativeFee(t *testing.T) {
	svc := newService(t)

	_, err := svc.Update(context.Background(), records.SettingsRecord{
		MonthlyFee: decimal.NewFromInt(-1),
	})
	require.Error(t, err)
}
