package jwtx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

var ErrKeySetUnavailable = errors.New("jwtx: key set unavailable")

// KeySource hands out the cached key set and refreshes it on demand.
type KeySource interface {
	// KeySet returns the cached set, fetching it first if nothing is cached.
	KeySet(ctx context.Context) (*KeySet, error)

	// Refresh replaces the cached set, unless it has already moved past
	// seen, in which case the newer set is returned without a fetch.
	Refresh(ctx context.Context, seen *KeySet) (*KeySet, error)
}

type ResolverOptions struct {
	// Timeout bounds a single fetch. Defaults to 5s.
	Timeout time.Duration

	Logger *slog.Logger
}

// Resolver caches an issuer's key set in process memory.
//
// Concurrent callers that find the cache empty, or that force a refresh
// against the same snapshot, share one in-flight fetch.
type Resolver struct {
	fetcher KeyFetcher
	timeout time.Duration
	logger  *slog.Logger

	current atomic.Pointer[KeySet]
	group   singleflight.Group
	fetches atomic.Int64
}

func NewResolver(fetcher KeyFetcher, opts ResolverOptions) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Resolver{
		fetcher: fetcher,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
}

// KeySet returns the cached key set or fetches it on first use.
func (r *Resolver) KeySet(ctx context.Context) (*KeySet, error) {
	if ks := r.current.Load(); ks != nil {
		return ks, nil
	}
	return r.load(ctx, nil)
}

// Refresh forces a re-fetch unless another caller already replaced seen.
// Every call that still holds the current set fetches; concurrent ones
// share a single request.
func (r *Resolver) Refresh(ctx context.Context, seen *KeySet) (*KeySet, error) {
	return r.load(ctx, seen)
}

// Current returns the cached key set without fetching. Nil when empty.
func (r *Resolver) Current() *KeySet {
	return r.current.Load()
}

// IsReady reports whether a key set has been loaded.
func (r *Resolver) IsReady() bool {
	return r.current.Load() != nil
}

// Fetches reports how many outbound fetches have been attempted.
func (r *Resolver) Fetches() int64 {
	return r.fetches.Load()
}

func (r *Resolver) load(ctx context.Context, seen *KeySet) (*KeySet, error) {
	ch := r.group.DoChan("jwks", func() (any, error) {
		if cur := r.current.Load(); cur != nil && cur != seen {
			return cur, nil
		}

		// Shared by every waiter: one caller cancelling must not fail the rest.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		r.fetches.Add(1)
		start := time.Now()
		ks, err := r.fetcher.Fetch(fetchCtx)
		if err != nil {
			r.logger.Warn("jwks fetch failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
			return nil, fmt.Errorf("%w: %w", ErrKeySetUnavailable, err)
		}

		r.current.Store(ks)
		r.logger.Info("jwks loaded",
			"issuer", ks.IssuerURL(),
			"keys", ks.Len(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return ks, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*KeySet), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrKeySetUnavailable, ctx.Err())
	}
}
