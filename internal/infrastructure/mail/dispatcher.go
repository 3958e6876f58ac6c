package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskforge/task-manager/internal/api/metrics"
	"github.com/taskforge/task-manager/internal/core/ports"
)

const (
	defaultWorkers = 4
	queueBuffer    = 64
	sendTimeout    = 15 * time.Second
)

const (
	kindWelcome      = "welcome"
	kindCancellation = "cancellation"
)

type job struct {
	kind  string
	email string
	name  string
}

// Dispatcher delivers transactional email on a fixed pool of workers.
// Enqueueing never blocks the request path: when the buffer is full the
// message is dropped, which is acceptable for at-most-once, best-effort
// delivery.
type Dispatcher struct {
	jobs       chan job
	numWorkers int
	mailer     ports.Mailer
	log        zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers delivery workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Dispatcher{
		jobs:       make(chan job, queueBuffer),
		numWorkers: numWorkers,
		mailer:     mailer,
		log:        log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.numWorkers; i++ {
		go d.runWorker(ctx, i)
	}
}

// NotifyWelcome enqueues the registration welcome email.
func (d *Dispatcher) NotifyWelcome(email, name string) {
	d.enqueue(job{kind: kindWelcome, email: email, name: name})
}

// NotifyCancellation enqueues the account-deletion email.
func (d *Dispatcher) NotifyCancellation(email, name string) {
	d.enqueue(job{kind: kindCancellation, email: email, name: name})
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.jobs <- j:
	default:
		metrics.EmailsSentTotal.WithLabelValues(j.kind, "dropped").Inc()
		d.log.Warn().Str("kind", j.kind).Msg("mail queue full, dropping message")
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-d.jobs:
			if !ok {
				return
			}
			d.deliver(ctx, id, j)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, j job) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	var err error
	switch j.kind {
	case kindWelcome:
		err = d.mailer.SendWelcome(sendCtx, j.email, j.name)
	case kindCancellation:
		err = d.mailer.SendCancellation(sendCtx, j.email, j.name)
	}

	if err != nil {
		metrics.EmailsSentTotal.WithLabelValues(j.kind, "failure").Inc()
		d.log.Error().Err(err).
			Str("kind", j.kind).
			Int("worker_id", workerID).
			Msg("email delivery failed")
		return
	}
	metrics.EmailsSentTotal.WithLabelValues(j.kind, "success").Inc()
}
