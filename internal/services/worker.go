package services

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var ErrDispatcherStopped = errors.New("model dispatcher stopped")

type chatJob struct {
	messages []Message
	opts     ChatOptions
	reply    chan chatResult
}

type chatResult struct {
	content string
	err     error
}

// Dispatcher runs model calls on a fixed pool of workers so that slow
// completions never occupy the goroutines accepting requests. It implements
// ModelBackend and must be started before use.
type Dispatcher struct {
	backend     ModelBackend
	limiter     *rate.Limiter
	timeout     time.Duration
	concurrency int
	logger      *zap.Logger

	jobQueue chan chatJob
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

type DispatcherOptions struct {
	Concurrency int
	// RateLimit caps model calls per second; zero disables pacing.
	RateLimit float64
	// Timeout bounds a single model call independently of the caller.
	Timeout time.Duration
}

func NewDispatcher(backend ModelBackend, opts DispatcherOptions, logger *zap.Logger) *Dispatcher {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Dispatcher{
		backend:     backend,
		limiter:     limiter,
		timeout:     opts.Timeout,
		concurrency: opts.Concurrency,
		logger:      logger,
		jobQueue:    make(chan chatJob, 100),
		stopChan:    make(chan struct{}),
	}
}

// Start launches the workers. ctx is the parent of every model call.
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("starting model dispatcher", zap.Int("workers", d.concurrency))

	for i := 0; i < d.concurrency; i++ {
		d.wg.Add(1)
		go d.processJobs(ctx, i+1)
	}
}

// Stop waits for in-flight calls to finish. Queued calls fail with
// ErrDispatcherStopped.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.logger.Info("stopping model dispatcher")
		close(d.stopChan)
		d.wg.Wait()
		d.logger.Info("model dispatcher stopped")
	})
}

// Chat implements ModelBackend. Giving up on ctx does not cancel a call a
// worker has already started; its result is discarded.
func (d *Dispatcher) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	job := chatJob{
		messages: messages,
		opts:     opts,
		reply:    make(chan chatResult, 1),
	}

	select {
	case d.jobQueue <- job:
	case <-d.stopChan:
		return "", ErrDispatcherStopped
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "waiting for a model worker")
	}

	select {
	case res := <-job.reply:
		return res.content, res.err
	case <-d.stopChan:
		return "", ErrDispatcherStopped
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "waiting for the model response")
	}
}

// Provider implements ModelBackend.
func (d *Dispatcher) Provider() string {
	return d.backend.Provider()
}

// Model implements ModelBackend.
func (d *Dispatcher) Model() string {
	return d.backend.Model()
}

func (d *Dispatcher) processJobs(ctx context.Context, workerID int) {
	defer d.wg.Done()
	log := d.logger.With(zap.Int("worker", workerID))
	log.Debug("model worker started")

	for {
		select {
		case <-d.stopChan:
			log.Debug("model worker stopped")
			return
		case job := <-d.jobQueue:
			job.reply <- d.run(ctx, job)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, job chatJob) chatResult {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return chatResult{err: errors.Wrap(err, "rate limiter")}
		}
	}

	started := time.Now()
	content, err := d.backend.Chat(ctx, job.messages, job.opts)
	d.logger.Debug("model call finished",
		zap.Duration("latency", time.Since(started)),
		zap.Int("response_chars", len(content)),
		zap.Error(err),
	)

	return chatResult{content: content, err: err}
}
