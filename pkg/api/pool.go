package api

import (
	"context"
	"sync/atomic"
	"time"
)

// WorkerPool bounds concurrent request processing. Move queries and state
// syncs are latency-critical and run on the move pool; analysis requests can
// flood a whole board repeatedly per direction, so they share a much smaller
// pool.
type WorkerPool struct {
	moveSem       chan struct{}
	analysisSem   chan struct{}
	queuedMove    int64
	queuedAnal    int64
	activeMove    int64
	activeAnal    int64
	totalMove     int64
	totalAnalysis int64
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxMoveWorkers     int // Max concurrent move/state requests (default: 100)
	MaxAnalysisWorkers int // Max concurrent analysis requests (default: 4)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxMoveWorkers:     100,
		MaxAnalysisWorkers: 4,
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	if config.MaxMoveWorkers <= 0 {
		config.MaxMoveWorkers = 100
	}
	if config.MaxAnalysisWorkers <= 0 {
		config.MaxAnalysisWorkers = 4
	}

	return &WorkerPool{
		moveSem:     make(chan struct{}, config.MaxMoveWorkers),
		analysisSem: make(chan struct{}, config.MaxAnalysisWorkers),
	}
}

// AcquireMove acquires a slot for a move or state-sync request.
// Returns an error if the context is cancelled while waiting.
func (p *WorkerPool) AcquireMove(ctx context.Context) error {
	atomic.AddInt64(&p.queuedMove, 1)
	defer atomic.AddInt64(&p.queuedMove, -1)

	select {
	case p.moveSem <- struct{}{}:
		atomic.AddInt64(&p.activeMove, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseMove releases a move slot.
func (p *WorkerPool) ReleaseMove() {
	atomic.AddInt64(&p.activeMove, -1)
	atomic.AddInt64(&p.totalMove, 1)
	<-p.moveSem
}

// AcquireAnalysis acquires a slot for an analysis request.
// Returns an error if the context is cancelled while waiting.
func (p *WorkerPool) AcquireAnalysis(ctx context.Context) error {
	atomic.AddInt64(&p.queuedAnal, 1)
	defer atomic.AddInt64(&p.queuedAnal, -1)

	select {
	case p.analysisSem <- struct{}{}:
		atomic.AddInt64(&p.activeAnal, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseAnalysis releases an analysis slot.
func (p *WorkerPool) ReleaseAnalysis() {
	atomic.AddInt64(&p.activeAnal, -1)
	atomic.AddInt64(&p.totalAnalysis, 1)
	<-p.analysisSem
}

// PoolStats is a snapshot of pool activity.
type PoolStats struct {
	ActiveMove     int64 `json:"active_move"`
	ActiveAnalysis int64 `json:"active_analysis"`
	QueuedMove     int64 `json:"queued_move"`
	QueuedAnalysis int64 `json:"queued_analysis"`
	TotalMove      int64 `json:"total_move"`
	TotalAnalysis  int64 `json:"total_analysis"`
	MaxMove        int   `json:"max_move"`
	MaxAnalysis    int   `json:"max_analysis"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		ActiveMove:     atomic.LoadInt64(&p.activeMove),
		ActiveAnalysis: atomic.LoadInt64(&p.activeAnal),
		QueuedMove:     atomic.LoadInt64(&p.queuedMove),
		QueuedAnalysis: atomic.LoadInt64(&p.queuedAnal),
		TotalMove:      atomic.LoadInt64(&p.totalMove),
		TotalAnalysis:  atomic.LoadInt64(&p.totalAnalysis),
		MaxMove:        cap(p.moveSem),
		MaxAnalysis:    cap(p.analysisSem),
	}
}

// TryAcquireMove tries to acquire a move slot without blocking.
// Returns true if acquired, false if pool is full.
func (p *WorkerPool) TryAcquireMove() bool {
	select {
	case p.moveSem <- struct{}{}:
		atomic.AddInt64(&p.activeMove, 1)
		return true
	default:
		return false
	}
}

// TryAcquireAnalysis tries to acquire an analysis slot without blocking.
// Returns true if acquired, false if pool is full.
func (p *WorkerPool) TryAcquireAnalysis() bool {
	select {
	case p.analysisSem <- struct{}{}:
		atomic.AddInt64(&p.activeAnal, 1)
		return true
	default:
		return false
	}
}

// AcquireAnalysisWithTimeout tries to acquire an analysis slot, giving up
// after the timeout.
func (p *WorkerPool) AcquireAnalysisWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.AcquireAnalysis(ctx)
}
