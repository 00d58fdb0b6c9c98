package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
)

// TokenSweeper purges expired rows from the token store.
type TokenSweeper struct {
	Deps
}

func NewTokenSweeper(d Deps) *TokenSweeper {
	return &TokenSweeper{Deps: d}
}

// SweepOnce deletes every token expired at the current clock time.
func (s *TokenSweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.Repos.UserTokens(s.Tx.Conn()).DeleteExpired(ctx, s.Clock.Now())
	if err != nil {
		return 0, fmt.Errorf("error deleting expired tokens: %w", err)
	}
	s.Metrics.RecordTokensSwept(n)
	return n, nil
}

// Run sweeps every interval until ctx is done.
func (s *TokenSweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepOnce(ctx)
			if err != nil {
				logging.LogError(ctx, s.Log, "token sweep failed", err)
				continue
			}
			if n > 0 {
				s.Log.Debug(ctx, "expired tokens swept", "count", n)
			}
		}
	}
}
