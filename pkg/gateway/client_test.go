package gateway_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anandbhagyawant/messconnect-backend/pkg/config"
	"github.com/anandbhagyawant/messconnect-backend/pkg/gateway"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newClient(t *testing.T, baseURL string) *gateway.Client {
	t.Helper()
	return gateway.NewClient(context.Background(), config.GatewayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "secret",
		BaseURL:   baseURL,
		Currency:  "INR",
		Timeout:   5 * time.Second,
	}, testLogger())
}

func TestVerifySignature(t *testing.T) {
	client := newClient(t, "http://gateway.invalid")

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_1|pay_1"))
	good := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifySignature("order_1", "pay_1", good))
	assert.False(t, client.VerifySignature("order_1", "pay_1", "deadbeef"))
	assert.False(t, client.VerifySignature("order_2", "pay_1", good))
	assert.False(t, client.VerifySignature("order_1", "pay_1", ""))
}

func TestVerifySignatureUnconfigured(t *testing.T) {
	client := gateway.NewClient(context.Background(), config.GatewayConfig{
		BaseURL:  "http://gateway.invalid",
		Currency: "INR",
		Timeout:  time.Second,
	}, testLogger())

	// fail closed when no secret is present
	assert.False(t, client.VerifySignature("order_1", "pay_1", "anything"))
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":20000,"currency":"INR","receipt":"asha@example.com:2026-08"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"order_42","amount":20000,"currency":"INR"}`)
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	order, err := client.CreateOrder(context.Background(), 20000, "asha@example.com:2026-08")
	require.NoError(t, err)
	assert.Equal(t, "order_42", order.ID)
	assert.Equal(t, int64(20000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
}

func TestCreateOrderNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	_, err := client.CreateOrder(context.Background(), 20000, "ref")
	require.Error(t, err)
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client := newClient(t, "http://gateway.invalid")

	_, err := client.CreateOrder(context.Background(), 0, "ref")
	require.Error(t, err)
}

func TestCreateOrderUnconfigured(t *testing.T) {
	client := gateway.NewClient(context.Background(), config.GatewayConfig{
		BaseURL:  "http://gateway.invalid",
		Currency: "INR",
		Timeout:  time.Second,
	}, testLogger())

	_, err := client.CreateOrder(context.Background(), 20000, "ref")
	assert.ErrorIs(t, err, gateway.ErrNotConfigured)
}
