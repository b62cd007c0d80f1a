package remote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trading-journal-go/internal/models"
)

// Source says where a resolved trade list actually came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Result carries resolved trades together with their origin. The caller
// decides what to do with a local fallback (e.g. skip importing it).
type Result struct {
	Trades []models.Trade
	Source Source
}

// LocalStore is the fallback source of trades when the feed is unreachable.
type LocalStore interface {
	ListTrades() ([]models.Trade, error)
}

// Resolver implements the two-stage read: try the remote feed first, and on
// any failure (network, bad status, decode) substitute the local store.
type Resolver struct {
	client FeedClientInterface
	local  LocalStore
	logger *zap.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(client FeedClientInterface, local LocalStore, logger *zap.Logger) *Resolver {
	return &Resolver{client: client, local: local, logger: logger}
}

// Resolve fetches trades, falling back to the local store on remote failure.
// An error is returned only when both stages fail.
func (r *Resolver) Resolve(ctx context.Context) (Result, error) {
	trades, err := r.client.FetchTrades(ctx)
	if err == nil {
		return Result{Trades: trades, Source: SourceRemote}, nil
	}

	r.logger.Warn("Remote feed unavailable, falling back to local store", zap.Error(err))

	local, localErr := r.local.ListTrades()
	if localErr != nil {
		return Result{}, fmt.Errorf("remote fetch failed (%v) and local fallback failed: %w", err, localErr)
	}

	return Result{Trades: local, Source: SourceLocal}, nil
}
