package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aizuanjeme/coffeShop/pkg/jwtx"
)

// KeyRefreshService periodically re-fetches the identity provider's signing
// keys so that rotated keys are usually cached before the first token signed
// with them arrives.
type KeyRefreshService struct {
	Resolver *jwtx.Resolver
	Logger   *slog.Logger
	Interval time.Duration
	Timeout  time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewKeyRefreshService creates the worker. A non-positive interval defaults
// to one hour.
func NewKeyRefreshService(resolver *jwtx.Resolver, logger *slog.Logger, interval time.Duration) *KeyRefreshService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &KeyRefreshService{
		Resolver: resolver,
		Logger:   logger,
		Interval: interval,
		Timeout:  30 * time.Second,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the worker. It loads the key set immediately, then on
// every tick.
func (s *KeyRefreshService) Start() {
	go s.run()
	s.Logger.Info("key refresh service started", "interval", s.Interval)
}

// Stop blocks until an in-progress refresh has finished.
func (s *KeyRefreshService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("key refresh service stopped")
}

func (s *KeyRefreshService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.refresh()
	for {
		select {
		case <-ticker.C:
			s.refresh()
		case <-s.stopCh:
			return
		}
	}
}

func (s *KeyRefreshService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	ks, err := s.Resolver.Refresh(ctx, s.Resolver.Current())
	if err != nil {
		// The cached set, if any, stays in use.
		s.Logger.Error("scheduled key refresh failed", "error", err)
		return
	}
	s.Logger.Debug("scheduled key refresh completed", "keys", ks.Len(), "fetched_at", ks.FetchedAt())
}
