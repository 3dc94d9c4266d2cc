package runner

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/selimozcann/linktracer/internal/model"
)

// Tracer traces a single target.
type Tracer interface {
	Trace(ctx context.Context, target string) model.Result
}

// Config holds settings for the runner.
type Config struct {
	Threads int
}

// Runner traces batches of independent targets concurrently.
type Runner struct {
	cfg    Config
	tracer Tracer
	logger *zap.Logger

	// OnResult, if set, is called once per finished target. Calls are serialized.
	OnResult func(idx int, res model.Result)
}

// New creates a new Runner.
func New(cfg Config, tracer Tracer, logger *zap.Logger) *Runner {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, tracer: tracer, logger: logger.Named("runner")}
}

// Run traces every target and returns the results in input order. Targets not
// started before ctx is cancelled are left as empty results carrying only
// their target.
func (r *Runner) Run(ctx context.Context, targets []string) []model.Result {
	out := make([]model.Result, len(targets))
	for i, t := range targets {
		out[i].Target = t
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Threads)

	r.logger.Debug("starting batch", zap.Int("targets", len(targets)), zap.Int("threads", r.cfg.Threads))
	for i, target := range targets {
		if gctx.Err() != nil {
			break
		}
		i, target := i, target
		g.Go(func() error {
			res := r.tracer.Trace(gctx, target)
			mu.Lock()
			defer mu.Unlock()
			out[i] = res
			if r.OnResult != nil {
				r.OnResult(i, res)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
