package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockfolio/internal/domain"
	"github.com/stockfolio/internal/modules/portfolio"
)

// RefreshJob periodically re-fetches market data for every holding and
// merges it in, preserving the user-owned fields. The engine guards
// against overlap: if the previous refresh is still in flight when the
// timer fires again, this run is skipped rather than restarted.
type RefreshJob struct {
	engine  *portfolio.Engine
	timeout time.Duration
	log     zerolog.Logger
}

// NewRefreshJob creates the periodic portfolio refresh job
func NewRefreshJob(engine *portfolio.Engine, timeout time.Duration, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		engine:  engine,
		timeout: timeout,
		log:     log.With().Str("job", "portfolio_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "portfolio_refresh"
}

// Run executes one full refresh cycle
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.engine.RefreshAll(ctx); err != nil {
		if errors.Is(err, domain.ErrRefreshInProgress) {
			j.log.Debug().Msg("Previous refresh still running, skipping this cycle")
			return nil
		}
		return err
	}

	return nil
}
