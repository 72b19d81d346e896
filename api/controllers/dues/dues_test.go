package dues_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anandbhagyawant/messconnect-backend/api/controllers/dues"
	"github.com/anandbhagyawant/messconnect-backend/api/middleware"
	"github.com/anandbhagyawant/messconnect-backend/internal/directory"
	"github.com/anandbhagyawant/messconnect-backend/internal/ledger"
	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/internal/settings"
	"github.com/anandbhagyawant/messconnect-backend/internal/store"
	"github.com/anandbhagyawant/messconnect-backend/pkg/db/models"
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var august = time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	router  chi.Router
	catalog *records.Catalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.EntityRecord{}, &models.EntityIndexEntry{}))

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	catalog := records.NewCatalog(store.New(gdb))
	settingsSvc := settings.NewService(catalog, logg)
	ledgerSvc := ledger.NewService(catalog, settingsSvc, logg, func() time.Time { return august })
	directorySvc := directory.NewService(catalog, logg)

	_, err = settingsSvc.Update(context.Background(), records.SettingsRecord{
		MonthlyFee: decimal.NewFromInt(2000),
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/api/my-dues", dues.MyDues(directorySvc, ledgerSvc, logg))
	r.Get("/api/financials", dues.Financials(ledgerSvc, logg))
	r.Post("/api/dues/{dueID}/mark-paid", dues.MarkPaid(ledgerSvc, logg))

	return &fixture{router: r, catalog: catalog}
}

func (f *fixture) seedStudent(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.catalog.Users.Create(context.Background(), records.UserRecord{
		ID: id, Email: id, Name: "Asha", Role: enums.UserRoleStudent,
		Status: enums.UserStatusApproved, PasswordHash: "x",
	}))
}

func asUser(req *http.Request, userID, role string) *http.Request {
	ctx := middleware.WithUserID(req.Context(), userID)
	ctx = middleware.WithRole(ctx, role)
	return req.WithContext(ctx)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestMyDuesSeedsAndReturnsCurrentMonth(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "asha@example.com")

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/my-dues", nil), "asha@example.com", "student")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	var list []records.MonthlyDueRecord
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "2026-08", list[0].Month)
	assert.Equal(t, enums.DueStatusDue, list[0].Status)
}

func TestMarkPaid(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "asha@example.com")

	// seed the due first
	seedReq := asUser(httptest.NewRequest(http.MethodGet, "/api/my-dues", nil), "asha@example.com", "student")
	f.router.ServeHTTP(httptest.NewRecorder(), seedReq)

	dueID := records.DueKey("asha@example.com", "2026-08")
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/dues/"+dueID+"/mark-paid", nil), "manager@messconnect.com", "manager")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)

	var due records.MonthlyDueRecord
	require.NoError(t, json.Unmarshal(env.Data, &due))
	assert.Equal(t, enums.DueStatusPaid, due.Status)
}

func TestMarkPaidUnknownDue(t *testing.T) {
	f := newFixture(t)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/dues/ghost@example.com:2026-08/mark-paid", nil), "manager@messconnect.com", "manager")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestFinancialsSeedsWithoutStudentQuery(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "asha@example.com")

	// the manager's view alone must materialize the current month
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/financials", nil), "manager@messconnect.com", "manager")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)

	var view struct {
		Dues []records.MonthlyDueRecord `json:"dues"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Dues, 1)
	assert.Equal(t, "2026-08", view.Dues[0].Month)
}

func TestFinancials(t *testing.T) {
	f := newFixture(t)
	f.seedStudent(t, "asha@example.com")

	seedReq := asUser(httptest.NewRequest(http.MethodGet, "/api/my-dues", nil), "asha@example.com", "student")
	f.router.ServeHTTP(httptest.NewRecorder(), seedReq)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/financials", nil), "manager@messconnect.com", "manager")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)

	var view struct {
		Dues          []records.MonthlyDueRecord   `json:"dues"`
		GuestPayments []records.GuestPaymentRecord `json:"guestPayments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Len(t, view.Dues, 1)
	assert.Empty(t, view.GuestPayments)
}
