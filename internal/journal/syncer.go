package journal

import (
	"context"
	"time"

	"go.uber.org/zap"

	"trading-journal-go/internal/remote"
)

// TradeResolver yields the current trade list and says where it came from.
type TradeResolver interface {
	Resolve(ctx context.Context) (remote.Result, error)
}

// Syncer periodically pulls the remote feed into the local store. A local
// fallback result is never imported; it is already ours.
type Syncer struct {
	logger   *zap.Logger
	resolver TradeResolver
	repo     *Repository
	interval time.Duration
}

// NewSyncer creates a new Syncer.
func NewSyncer(logger *zap.Logger, resolver TradeResolver, repo *Repository, interval time.Duration) *Syncer {
	return &Syncer{
		logger:   logger,
		resolver: resolver,
		repo:     repo,
		interval: interval,
	}
}

// Run syncs once immediately, then on every tick until the context is
// cancelled.
func (s *Syncer) Run(ctx context.Context) {
	s.logger.Info("Starting sync loop", zap.Duration("interval", s.interval))

	if err := s.SyncOnce(ctx); err != nil {
		s.logger.Error("Sync failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping sync loop...")
			return
		case <-ticker.C:
			if err := s.SyncOnce(ctx); err != nil {
				s.logger.Error("Sync failed", zap.Error(err))
			}
		}
	}
}

// SyncOnce performs a single resolve-and-import round.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	result, err := s.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	if result.Source == remote.SourceLocal {
		s.logger.Info("Feed unavailable, keeping local trades", zap.Int("count", len(result.Trades)))
		return nil
	}

	created, err := s.repo.ImportTrades(result.Trades)
	if err != nil {
		return err
	}
	s.logger.Info("Synced trades from remote feed",
		zap.Int("fetched", len(result.Trades)),
		zap.Int("created", created),
	)
	return nil
}
