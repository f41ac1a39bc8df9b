package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
)

const (
	defaultQueueSize = 64
	sendTimeout      = 30 * time.Second
)

type job struct {
	kind      string
	order     models.Order
	customer  *models.User
	proofPath string
}

// Dispatcher delivers notifications on a single background worker so request
// handlers never wait on mail. Delivery is at most once with no retry; a full
// queue drops the notification.
type Dispatcher struct {
	notifier *Notifier
	jobs     chan job
	done     chan struct{}
	log      *slog.Logger

	// OnResult, when set before the first Enqueue, observes every outcome.
	OnResult func(kind string, order models.Order, res Result)

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(notifier *Notifier, queueSize int, log *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	d := &Dispatcher{
		notifier: notifier,
		jobs:     make(chan job, queueSize),
		done:     make(chan struct{}),
		log:      log.With("component", "dispatcher"),
	}
	go d.run()
	return d
}

func (d *Dispatcher) OrderCreated(order *models.Order, customer *models.User) {
	d.enqueue(job{kind: "order_created", order: *order, customer: customer})
}

func (d *Dispatcher) PaymentProofUploaded(order *models.Order, customer *models.User, proofPath string) {
	d.enqueue(job{kind: "upi_payment", order: *order, customer: customer, proofPath: proofPath})
}

func (d *Dispatcher) enqueue(j job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn("Dispatcher closed; dropping notification", "kind", j.kind, "order_number", j.order.OrderNumber)
		return
	}
	select {
	case d.jobs <- j:
	default:
		d.log.Warn("Notification queue full; dropping notification", "kind", j.kind, "order_number", j.order.OrderNumber)
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.jobs {
		d.handle(j)
	}
}

func (d *Dispatcher) handle(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	var res Result
	switch j.kind {
	case "order_created":
		res = d.notifier.OrderCreated(ctx, &j.order, j.customer)
	case "upi_payment":
		res = d.notifier.PaymentProofUploaded(ctx, &j.order, j.customer, j.proofPath)
	}
	if d.OnResult != nil {
		d.OnResult(j.kind, j.order, res)
	}
}

// Close stops accepting work and waits for queued notifications to finish or
// for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
