package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pool runs named background tasks and stops them together on shutdown
type Pool struct {
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewPool creates a pool whose tasks live until Shutdown
func NewPool(logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Go starts task in its own goroutine; task must return once ctx is done
func (p *Pool) Go(name string, task func(ctx context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.logger.Debug("▶️ [Worker] Task started", "task", name)
		task(p.ctx)
		p.logger.Debug("⏹️ [Worker] Task finished", "task", name)
	}()
}

// Every runs task immediately and then once per interval until shutdown.
// Each run gets its own deadline of one interval.
func (p *Pool) Every(name string, interval time.Duration, task func(ctx context.Context)) {
	p.Go(name, func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			runCtx, cancel := context.WithTimeout(ctx, interval)
			task(runCtx)
			cancel()

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	})
}

// Context returns the pool's context
func (p *Pool) Context() context.Context {
	return p.ctx
}

// Shutdown cancels every task and waits up to timeout for them to return.
// It reports whether all tasks finished in time.
func (p *Pool) Shutdown(timeout time.Duration) bool {
	p.logger.Info("🛑 [Worker] Initiating graceful shutdown...")

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("✅ [Worker] All background tasks completed")
		return true
	case <-time.After(timeout):
		p.logger.Warn("⚠️ [Worker] Shutdown timeout exceeded, some tasks may not have completed",
			"timeout", timeout,
		)
		return false
	}
}
