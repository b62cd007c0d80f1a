package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trading-journal-go/internal/database"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
)

// setupHandler creates an APIHandler over a fresh in-memory database.
func setupHandler(t *testing.T) (*APIHandler, *journal.Repository) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repo := journal.NewRepository(db, zap.NewNop())
	return NewAPIHandler(zap.NewNop(), repo), repo
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedDecember(t *testing.T, repo *journal.Repository) {
	exit := 16530.0
	require.NoError(t, repo.CreateTrade(&models.Trade{Date: day("2025-12-05"), Symbol: "GBPUSD", PnL: 284, Exit: &exit}))
	require.NoError(t, repo.CreateTrade(&models.Trade{Date: day("2025-12-12"), Symbol: "XAUUSD", PnL: -280}))
	require.NoError(t, repo.CreateTrade(&models.Trade{Date: day("2025-12-18"), Symbol: "NAS100", PnL: 250, IsExitRecord: true}))
	require.NoError(t, repo.CreateTrade(&models.Trade{Date: day("2025-11-28"), Symbol: "GBPUSD", PnL: 90}))
}

func TestHealthHandler(t *testing.T) {
	h, _ := setupHandler(t)

	rec := httptest.NewRecorder()
	h.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK   bool              `json:"ok"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "up", resp.Data["status"])
	_, err := time.Parse(time.RFC3339, resp.Data["time"])
	assert.NoError(t, err)
}

func TestTradesHandler_CreateAndList(t *testing.T) {
	h, _ := setupHandler(t)

	body := `{"date":"2025-12-05","symbol":"GBPUSD","direction":"Long","entry":1.265,"exit":1.2721,"size":2,"pnl":284}`
	rec := httptest.NewRecorder()
	h.TradesHandler(rec, httptest.NewRequest(http.MethodPost, "/api/trades", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.TradesHandler(rec, httptest.NewRequest(http.MethodGet, "/api/trades", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK   bool           `json:"ok"`
		Data []models.Trade `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "GBPUSD", resp.Data[0].Symbol)
	require.NotNil(t, resp.Data[0].Exit)
	assert.InDelta(t, 1.2721, *resp.Data[0].Exit, 1e-9)
}

func TestTradesHandler_BadDate(t *testing.T) {
	h, _ := setupHandler(t)

	body := `{"date":"05/12/2025","symbol":"GBPUSD","pnl":284}`
	rec := httptest.NewRecorder()
	h.TradesHandler(rec, httptest.NewRequest(http.MethodPost, "/api/trades", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTradesHandler_MonthFilter(t *testing.T) {
	h, repo := setupHandler(t)
	seedDecember(t, repo)

	rec := httptest.NewRecorder()
	h.TradesHandler(rec, httptest.NewRequest(http.MethodGet, "/api/trades?month=Dec25&exits_only=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Trade `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// The open December trade and the November trade are both excluded.
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "GBPUSD", resp.Data[0].Symbol)
	assert.Equal(t, "NAS100", resp.Data[1].Symbol)
}

func TestSummaryHandler(t *testing.T) {
	h, repo := setupHandler(t)
	seedDecember(t, repo)

	rec := httptest.NewRecorder()
	h.SummaryHandler(rec, httptest.NewRequest(http.MethodGet, "/api/summary?month=Dec25", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Net         float64 `json:"net"`
			TotalTrades int     `json:"total_trades"`
			WinRate     float64 `json:"win_rate"`
			Drawdown    float64 `json:"drawdown"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 254, resp.Data.Net, 1e-9)
	assert.Equal(t, 3, resp.Data.TotalTrades)
	assert.InDelta(t, 66.7, resp.Data.WinRate, 0.05)
	assert.InDelta(t, -280, resp.Data.Drawdown, 1e-9)
}

func TestMetricsHandler_NoTrades(t *testing.T) {
	h, _ := setupHandler(t)

	rec := httptest.NewRecorder()
	h.MetricsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Error, "no trades")
}

func TestAttachSessionHandler(t *testing.T) {
	h, repo := setupHandler(t)
	trade := models.Trade{Date: day("2025-12-05"), Symbol: "GBPUSD", PnL: 284}
	require.NoError(t, repo.CreateTrade(&trade))

	body := `{"trade_id":` + strconv.FormatUint(uint64(trade.ID), 10) + `,"session":"London"}`
	rec := httptest.NewRecorder()
	h.AttachSessionHandler(rec, httptest.NewRequest(http.MethodPost, "/api/trades/session", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	trades, err := repo.ListTrades()
	require.NoError(t, err)
	require.NotNil(t, trades[0].Session)
	assert.Equal(t, "London", *trades[0].Session)

	// Unknown trade IDs 404.
	rec = httptest.NewRecorder()
	h.AttachSessionHandler(rec, httptest.NewRequest(http.MethodPost, "/api/trades/session", strings.NewReader(`{"trade_id":999,"session":"London"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportTradesHandler(t *testing.T) {
	h, repo := setupHandler(t)
	seedDecember(t, repo)

	rec := httptest.NewRecorder()
	h.ExportTradesHandler(rec, httptest.NewRequest(http.MethodGet, "/api/export/trades.csv?month=Dec25", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 4) // header + three December trades
	assert.True(t, strings.HasPrefix(lines[0], "id,date,symbol"))
}
