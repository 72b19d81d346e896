package payments_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	paymentcontrollers "github.com/anandbhagyawant/messconnect-backend/api/controllers/payments"
	"github.com/anandbhagyawant/messconnect-backend/internal/ledger"
	paymentsvc "github.com/anandbhagyawant/messconnect-backend/internal/payments"
	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/internal/settings"
	"github.com/anandbhagyawant/messconnect-backend/internal/store"
	"github.com/anandbhagyawant/messconnect-backend/pkg/config"
	"github.com/anandbhagyawant/messconnect-backend/pkg/db/models"
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	"github.com/anandbhagyawant/messconnect-backend/pkg/gateway"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "test_secret"

var august = time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	router  chi.Router
	catalog *records.Catalog
}

func newFixture(t *testing.T, baseURL string) *fixture {
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

	gw := gateway.NewClient(context.Background(), config.GatewayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: testSecret,
		BaseURL:   baseURL,
		Currency:  "INR",
		Timeout:   5 * time.Second,
	}, logg)
	svc := paymentsvc.NewService(gw, ledgerSvc, logg)

	r := chi.NewRouter()
	r.Post("/api/payments/create-order", paymentcontrollers.CreateOrder(svc, logg))
	r.Post("/api/payments/verify", paymentcontrollers.Verify(svc, logg))

	return &fixture{router: r, catalog: catalog}
}

func (f *fixture) seedDue(t *testing.T, studentID string) records.MonthlyDueRecord {
	t.Helper()
	due := records.MonthlyDueRecord{
		ID:        records.DueKey(studentID, "2026-08"),
		StudentID: studentID,
		Month:     "2026-08",
		Amount:    decimal.NewFromInt(2000),
		Status:    enums.DueStatusDue,
	}
	require.NoError(t, f.catalog.Dues.Create(context.Background(), due))
	return due
}

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func postJSON(t *testing.T, router chi.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestVerifyEndpointRejectsBadSignature(t *testing.T) {
	f := newFixture(t, "http://gateway.invalid")
	due := f.seedDue(t, "asha@example.com")

	rec := postJSON(t, f.router, "/api/payments/verify", map[string]any{
		"orderId":    "order_1",
		"paymentId":  "pay_1",
		"signature":  "deadbeef",
		"entityId":   due.ID,
		"entityType": "due",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env struct {
		Success bool `json:"success"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SIGNATURE_INVALID", env.Error.Code)
	assert.Equal(t, "payment verification failed", env.Error.Message)
}

func TestVerifyEndpointSettlesDue(t *testing.T) {
	f := newFixture(t, "http://gateway.invalid")
	due := f.seedDue(t, "asha@example.com")

	rec := postJSON(t, f.router, "/api/payments/verify", map[string]any{
		"orderId":    "order_1",
		"paymentId":  "pay_1",
		"signature":  sign("order_1", "pay_1"),
		"entityId":   due.ID,
		"entityType": "due",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.catalog.Dues.Get(context.Background(), due.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.DueStatusPaid, stored.Status)
}

func TestVerifyEndpointGuestPayment(t *testing.T) {
	f := newFixture(t, "http://gateway.invalid")

	rec := postJSON(t, f.router, "/api/payments/verify", map[string]any{
		"orderId":    "order_g1",
		"paymentId":  "pay_g1",
		"signature":  sign("order_g1", "pay_g1"),
		"entityId":   "guest-ref",
		"entityType": "guest",
		"guestDetails": map[string]any{
			"name":   "Walk-in Guest",
			"phone":  "9999999999",
			"amount": 150,
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	all, err := f.catalog.GuestPayments.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "pay_g1", all[0].PaymentID)
}

func TestVerifyEndpointUnknownEntityType(t *testing.T) {
	f := newFixture(t, "http://gateway.invalid")

	rec := postJSON(t, f.router, "/api/payments/verify", map[string]any{
		"orderId":    "order_1",
		"paymentId":  "pay_1",
		"signature":  sign("order_1", "pay_1"),
		"entityType": "subscription",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"order_42","amount":20000,"currency":"INR"}`)
	}))
	defer server.Close()

	f := newFixture(t, server.URL)

	rec := postJSON(t, f.router, "/api/payments/create-order", map[string]any{
		"amount":   200,
		"name":     "Asha",
		"entityId": "asha@example.com:2026-08",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data struct {
			OrderID  string `json:"orderId"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			KeyID    string `json:"keyId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "order_42", env.Data.OrderID)
	assert.Equal(t, int64(20000), env.Data.Amount)
	assert.Equal(t, "rzp_test_key", env.Data.KeyID)
}

func TestCreateOrderEndpointValidation(t *testing.T) {
	f := newFixture(t, "http://gateway.invalid")

	rec := postJSON(t, f.router, "/api/payments/create-order", map[string]any{
		"amount": 200,
		"name":   "Asha",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
