package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestServer creates a new test server and a FeedClient configured to use it.
func setupTestServer(handler http.Handler) (*FeedClient, *httptest.Server) {
	server := httptest.NewServer(handler)

	fc := &FeedClient{
		client:  resty.New().SetBaseURL(server.URL),
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}

	return fc, server
}

func TestFetchTrades(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockResponse := `{
			"ok": true,
			"data": [
				{"id": "r-101", "date": "2025-12-05", "symbol": "GBPUSD", "direction": "Long", "entry": 1.265, "exit": 1.2721, "size": 2, "pnl": 284, "session": "London"},
				{"id": "r-102", "date": "2025-12-12", "symbol": "XAUUSD", "direction": "Short", "entry": 2041.5, "size": 0.2, "pnl": -280, "is_exit_record": true}
			]
		}`

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/trades", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(mockResponse))
		})

		fc, server := setupTestServer(handler)
		defer server.Close()

		// Act
		trades, err := fc.FetchTrades(context.Background())

		// Assert
		require.NoError(t, err)
		require.Len(t, trades, 2)

		assert.Equal(t, "r-101", trades[0].RemoteID)
		assert.Equal(t, "GBPUSD", trades[0].Symbol)
		assert.Equal(t, "2025-12-05", trades[0].Date.Format("2006-01-02"))
		require.NotNil(t, trades[0].Exit)
		assert.InDelta(t, 1.2721, *trades[0].Exit, 1e-9)
		require.NotNil(t, trades[0].Session)
		assert.Equal(t, "London", *trades[0].Session)

		assert.Nil(t, trades[1].Exit)
		assert.True(t, trades[1].IsExitRecord)
		assert.InDelta(t, -280, trades[1].PnL, 1e-9)
	})

	t.Run("FeedRejection", func(t *testing.T) {
		// The feed answered but flagged the payload as not ok.
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok": false, "error": "journal locked"}`))
		})

		fc, server := setupTestServer(handler)
		defer server.Close()

		trades, err := fc.FetchTrades(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "journal locked")
		assert.Nil(t, trades)
	})

	t.Run("BadDate", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok": true, "data": [{"id": "r-1", "date": "18/12/2025", "pnl": 1}]}`))
		})

		fc, server := setupTestServer(handler)
		defer server.Close()

		_, err := fc.FetchTrades(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse trade date")
	})

	t.Run("ClientError", func(t *testing.T) {
		// 4xx responses are not retried.
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"ok": false, "error": "no such journal"}`))
		})

		fc, server := setupTestServer(handler)
		defer server.Close()

		_, err := fc.FetchTrades(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "request failed with status")
	})
}
