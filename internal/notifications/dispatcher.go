package notifications

import (
	"context"
	"errors"
	"roombook/pkg/kafka"
	"roombook/pkg/logger"
	"sync"

	"github.com/cenkalti/backoff/v5"
)

// Notifier accepts events without blocking the caller.
type Notifier interface {
	Notify(events ...Event)
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Dispatcher queues events on a bounded channel drained by a single worker that
// publishes them with retries. A full queue drops the event with a warning.
type Dispatcher struct {
	publisher  Publisher
	log        *logger.Logger
	source     string
	maxTries   uint
	newBackOff func() backoff.BackOff

	mu     sync.RWMutex
	closed bool
	queue  chan Event

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

type DispatcherOption func(*Dispatcher)

// WithBackOff overrides the retry schedule between publish attempts.
func WithBackOff(fn func() backoff.BackOff) DispatcherOption {
	return func(d *Dispatcher) { d.newBackOff = fn }
}

func NewDispatcher(publisher Publisher, log *logger.Logger, source string, queueSize, retries int, opts ...DispatcherOption) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if retries < 0 {
		retries = 0
	}

	d := &Dispatcher{
		publisher: publisher,
		log:       log,
		source:    source,
		maxTries:  uint(retries) + 1,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.ctx, d.cancel = context.WithCancel(context.WithoutCancel(ctx))
	go d.run()
	d.log.Info("Notification dispatcher started", "queue_size", cap(d.queue), "max_tries", d.maxTries)
}

func (d *Dispatcher) Notify(events ...Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, ev := range events {
		if d.closed {
			d.log.Warn("Notification dropped, dispatcher stopped", "event_id", ev.ID, "kind", ev.Kind)
			continue
		}
		select {
		case d.queue <- ev:
		default:
			d.log.Warn("Notification dropped, queue full",
				"event_id", ev.ID,
				"kind", ev.Kind,
				"meeting_id", ev.Meeting.ID,
			)
		}
	}
}

// Stop closes the queue and waits for the worker to drain it or for ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	if d.cancel == nil {
		return nil
	}

	select {
	case <-d.done:
		d.cancel()
		d.log.Info("Notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		remaining := len(d.queue)
		d.cancel()
		<-d.done
		d.log.Warn("Notification dispatcher stopped before draining queue", "remaining", remaining)
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for ev := range d.queue {
		if d.ctx.Err() != nil {
			continue
		}
		if err := d.publish(d.ctx, ev); err != nil {
			d.log.Error("Failed to publish notification",
				"event_id", ev.ID,
				"kind", ev.Kind,
				"meeting_id", ev.Meeting.ID,
				"error", err,
			)
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, ev Event) error {
	key := ev.Meeting.ID
	if key == "" {
		key = ev.ID
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(ev).
		WithEventID(ev.ID).
		WithEventType(string(ev.Kind)).
		WithSchemaVersion(SchemaVersion).
		WithSource(d.source).
		Build()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := d.publisher.Publish(ctx, msg)
		if err == nil {
			return struct{}{}, nil
		}
		if isPermanent(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		d.log.Debug("Retrying notification publish", "event_id", ev.ID, "error", err)
		return struct{}{}, err
	}, backoff.WithBackOff(d.newBackOff()), backoff.WithMaxTries(d.maxTries))

	return err
}

func isPermanent(err error) bool {
	return errors.Is(err, kafka.ErrProducerClosed) ||
		errors.Is(err, kafka.ErrEmptyKey) ||
		errors.Is(err, kafka.ErrEmptyValue) ||
		errors.Is(err, kafka.ErrInvalidMessage)
}

// Noop discards every event.
type Noop struct{}

func (Noop) Notify(...Event) {}
