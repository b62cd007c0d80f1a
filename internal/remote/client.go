package remote

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/models"
)

const tradesPath = "/api/trades"

// FeedClientInterface defines the interface for the remote journal feed client.
type FeedClientInterface interface {
	FetchTrades(ctx context.Context) ([]models.Trade, error)
}

// FeedClient pulls trade records from a remote journal feed.
// It implements the FeedClientInterface.
type FeedClient struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure FeedClient implements the interface
var _ FeedClientInterface = (*FeedClient)(nil)

// NewFeedClient creates a new client for the remote journal feed.
func NewFeedClient(cfg *config.Remote, logger *zap.Logger) *FeedClient {
	client := resty.New().SetBaseURL(cfg.BaseURL)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &FeedClient{
		client:  client,
		logger:  logger,
		limiter: limiter,
	}
}

// feedTrade is the wire shape of one trade on the feed.
type feedTrade struct {
	ID           string   `json:"id"`
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

// tradesEnvelope is the feed's response wrapper.
type tradesEnvelope struct {
	OK    bool        `json:"ok"`
	Data  []feedTrade `json:"data"`
	Error string      `json:"error,omitempty"`
}

// FetchTrades downloads the full trade list from the feed.
func (c *FeedClient) FetchTrades(ctx context.Context) ([]models.Trade, error) {
	req := c.client.R().
		SetContext(ctx).
		SetResult(&tradesEnvelope{}).
		SetHeader("Content-Type", "application/json")

	resp, err := c.doRequest(ctx, "GET", tradesPath, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trades: %w", err)
	}

	envelope := resp.Result().(*tradesEnvelope)
	if !envelope.OK {
		return nil, fmt.Errorf("feed rejected request: %s", envelope.Error)
	}

	trades := make([]models.Trade, 0, len(envelope.Data))
	for _, ft := range envelope.Data {
		date, err := time.Parse("2006-01-02", ft.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse trade date %q: %w", ft.Date, err)
		}
		trades = append(trades, models.Trade{
			Date:         date,
			Symbol:       ft.Symbol,
			Direction:    ft.Direction,
			Entry:        ft.Entry,
			Exit:         ft.Exit,
			Size:         ft.Size,
			PnL:          ft.PnL,
			Session:      ft.Session,
			Notes:        ft.Notes,
			IsExitRecord: ft.IsExitRecord,
			RemoteID:     ft.ID,
		})
	}

	c.logger.Debug("Fetched trades from remote feed", zap.Int("count", len(trades)))
	return trades, nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *FeedClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				retryAfterHeader := resp.Header().Get("Retry-After")
				if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 { // Server errors
				shouldRetry = true
			}
		} else { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		// If we should retry, calculate wait time
		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}
