package forward

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agenciau/leadrelay/internal/domain"
)

// WorkerPool dispatches fire-and-forget lead forwards. Failures are logged
// and never surfaced to the request that enqueued the lead.
type WorkerPool interface {
	Start(executeFn func(ctx context.Context, lead domain.Lead) error)
	GracefulStop()
	Process(lead domain.Lead)
}

type Pool struct {
	numWorkers int
	tasks      chan domain.Lead
	start      sync.Once
	stop       sync.Once
	doneChan   chan struct{}
	ctx        context.Context
	cancelFn   context.CancelFunc
	wg         *sync.WaitGroup
	logger     zerolog.Logger
}

func New(ctx context.Context, cfg Config, logger zerolog.Logger) *Pool {
	c, cancelFn := context.WithCancel(ctx)
	return &Pool{
		numWorkers: cfg.NumWorkers,
		tasks:      make(chan domain.Lead, cfg.QueueSize),
		doneChan:   make(chan struct{}),
		ctx:        c,
		cancelFn:   cancelFn,
		wg:         &sync.WaitGroup{},
		logger:     logger,
	}
}

func (p *Pool) Start(executeFn func(ctx context.Context, lead domain.Lead) error) {
	p.start.Do(func() {
		for i := 0; i < p.numWorkers; i++ {
			p.wg.Add(1)
			l := p.logger.With().Int("worker", i).Logger()
			go p.work(p.ctx, l, executeFn)
		}
	})
}

func (p *Pool) GracefulStop() {
	p.stop.Do(func() {
		close(p.doneChan)
		p.cancelFn()
		p.wg.Wait()
	})
}

// Process enqueues a lead without blocking the caller. A full queue drops
// the lead; the intake request already succeeded and must not wait.
func (p *Pool) Process(lead domain.Lead) {
	select {
	case p.tasks <- lead:
	default:
		p.logger.Warn().Msg("forward queue full, lead dropped")
	}
}

func (p *Pool) work(
	ctx context.Context,
	logger zerolog.Logger,
	executeFn func(ctx context.Context, lead domain.Lead) error,
) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.doneChan:
			return
		case lead, ok := <-p.tasks:
			if !ok {
				return
			}

			logger.Debug().Msg("start forwarding lead")
			if err := executeFn(ctx, lead); err != nil {
				logger.Err(err).Msg("failed to forward lead")
			}
			logger.Debug().Msg("end forwarding lead")
		}
	}
}
