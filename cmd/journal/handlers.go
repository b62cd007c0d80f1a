package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/export"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log  *zap.Logger
	repo *journal.Repository
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, repo *journal.Repository) *APIHandler {
	return &APIHandler{log: log, repo: repo}
}

// envelope is the uniform response wrapper.
type envelope struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (h *APIHandler) respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{OK: true, Data: data}); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *APIHandler) respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{OK: false, Error: msg})
}

// HealthHandler is the liveness probe.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]string{
		"status": "up",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// filteredTrades loads all trades and applies the optional ?month= and
// ?exits_only=true query filters.
func (h *APIHandler) filteredTrades(r *http.Request) ([]models.Trade, error) {
	trades, err := h.repo.ListTrades()
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	month := q.Get("month")
	exitsOnly := q.Get("exits_only") == "true"

	if month != "" {
		return analytics.FilterTrades(trades, month, exitsOnly), nil
	}
	if exitsOnly {
		// Exits-only with no month still filters, across all months.
		filtered := make([]models.Trade, 0, len(trades))
		for _, t := range trades {
			if t.HasExit() {
				filtered = append(filtered, t)
			}
		}
		return filtered, nil
	}
	return trades, nil
}

// tradeRequest is the creation payload.
type tradeRequest struct {
	Date         string   `json:"date"` // "2006-01-02"
	Symbol       string   `json:"symbol"`
	Direction    string   `json:"direction"`
	Entry        float64  `json:"entry"`
	Exit         *float64 `json:"exit,omitempty"`
	Size         float64  `json:"size"`
	PnL          float64  `json:"pnl"`
	Session      *string  `json:"session,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	IsExitRecord bool     `json:"is_exit_record,omitempty"`
}

// TradesHandler lists trades (GET) or records a new one (POST).
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		trades, err := h.filteredTrades(r)
		if err != nil {
			h.log.Error("Failed to get trades", zap.Error(err))
			h.respondError(w, http.StatusInternalServerError, "failed to get trades")
			return
		}
		h.respond(w, http.StatusOK, trades)

	case http.MethodPost:
		var req tradeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid trade payload")
			return
		}
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", req.Date))
			return
		}
		trade := models.Trade{
			Date:         date,
			Symbol:       req.Symbol,
			Direction:    req.Direction,
			Entry:        req.Entry,
			Exit:         req.Exit,
			Size:         req.Size,
			PnL:          req.PnL,
			Session:      req.Session,
			Notes:        req.Notes,
			IsExitRecord: req.IsExitRecord,
		}
		if err := h.repo.CreateTrade(&trade); err != nil {
			h.log.Error("Failed to create trade", zap.Error(err))
			h.respondError(w, http.StatusInternalServerError, "failed to create trade")
			return
		}
		h.respond(w, http.StatusCreated, trade)

	default:
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// AttachSessionHandler labels an existing trade with a session name.
func (h *APIHandler) AttachSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		TradeID uint   `json:"trade_id"`
		Session string `json:"session"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := h.repo.AttachSession(req.TradeID, req.Session); err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, fmt.Sprintf("trade %d not found", req.TradeID))
			return
		}
		h.log.Error("Failed to attach session", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to attach session")
		return
	}
	h.respond(w, http.StatusOK, map[string]interface{}{"trade_id": req.TradeID, "session": req.Session})
}

// SummaryHandler returns aggregate stats for the (optionally filtered) trades.
func (h *APIHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.filteredTrades(r)
	if err != nil {
		h.log.Error("Failed to get trades for summary", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to calculate summary")
		return
	}
	h.respond(w, http.StatusOK, analytics.Summarize(trades))
}

// EquityHandler returns the cumulative P&L curve.
func (h *APIHandler) EquityHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.filteredTrades(r)
	if err != nil {
		h.log.Error("Failed to get trades for equity curve", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to build equity curve")
		return
	}
	h.respond(w, http.StatusOK, analytics.EquityCurve(trades))
}

// DailyHandler returns P&L summed per calendar day.
func (h *APIHandler) DailyHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.filteredTrades(r)
	if err != nil {
		h.log.Error("Failed to get trades for daily series", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to build daily series")
		return
	}
	h.respond(w, http.StatusOK, analytics.DailyPnL(trades))
}

// MetricsHandler returns portfolio-level reporting metrics.
func (h *APIHandler) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.filteredTrades(r)
	if err != nil {
		h.log.Error("Failed to get trades for metrics", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to calculate metrics")
		return
	}

	metrics, err := analytics.ReportingMetrics(trades)
	if err != nil {
		if errors.Is(err, analytics.ErrNoTrades) {
			h.respondError(w, http.StatusNotFound, "no trades to report on")
			return
		}
		h.log.Error("Failed to calculate metrics", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to calculate metrics")
		return
	}
	h.respond(w, http.StatusOK, metrics)
}

// SessionsHandler lists (GET) or creates (POST) trading sessions.
func (h *APIHandler) SessionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sessions, err := h.repo.ListSessions()
		if err != nil {
			h.log.Error("Failed to list sessions", zap.Error(err))
			h.respondError(w, http.StatusInternalServerError, "failed to list sessions")
			return
		}
		h.respond(w, http.StatusOK, sessions)

	case http.MethodPost:
		var session models.Session
		if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid session payload")
			return
		}
		if err := h.repo.CreateSession(&session); err != nil {
			h.log.Error("Failed to create session", zap.Error(err))
			h.respondError(w, http.StatusConflict, "failed to create session")
			return
		}
		h.respond(w, http.StatusCreated, session)

	default:
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// SymbolsHandler lists (GET) or creates (POST) instruments.
func (h *APIHandler) SymbolsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		symbols, err := h.repo.ListSymbols()
		if err != nil {
			h.log.Error("Failed to list symbols", zap.Error(err))
			h.respondError(w, http.StatusInternalServerError, "failed to list symbols")
			return
		}
		h.respond(w, http.StatusOK, symbols)

	case http.MethodPost:
		var symbol models.Symbol
		if err := json.NewDecoder(r.Body).Decode(&symbol); err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid symbol payload")
			return
		}
		if err := h.repo.CreateSymbol(&symbol); err != nil {
			h.log.Error("Failed to create symbol", zap.Error(err))
			h.respondError(w, http.StatusConflict, "failed to create symbol")
			return
		}
		h.respond(w, http.StatusCreated, symbol)

	default:
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// SettingsHandler returns (GET) or updates (PUT) display preferences.
func (h *APIHandler) SettingsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := h.repo.GetSettings()
		if err != nil {
			h.log.Error("Failed to load settings", zap.Error(err))
			h.respondError(w, http.StatusInternalServerError, "failed to load settings")
			return
		}
		h.respond(w, http.StatusOK, settings)

	case http.MethodPut:
		var req struct {
			Currency     string `json:"currency"`
			Timezone     string `json:"timezone"`
			DefaultMonth string `json:"default_month"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid settings payload")
			return
		}
		if req.Currency != models.CurrencyGBP && req.Currency != models.CurrencyUSD {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported currency %q", req.Currency))
			return
		}
		settings, err := h.repo.UpdateSettings(req.Currency, req.Timezone, req.DefaultMonth)
		if err != nil {
			h.log.Error("Failed to update settings", zap.Error(err))
			h.respondError(w, http.StatusInternalServerError, "failed to update settings")
			return
		}
		h.respond(w, http.StatusOK, settings)

	default:
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// ExportTradesHandler streams the (optionally filtered) trades as CSV.
func (h *APIHandler) ExportTradesHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.filteredTrades(r)
	if err != nil {
		h.log.Error("Failed to get trades for export", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to export trades")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trades.csv"`)
	if err := export.WriteTrades(w, trades); err != nil {
		h.log.Error("Failed to write CSV export", zap.Error(err))
	}
}
