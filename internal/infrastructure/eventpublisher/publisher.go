package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goamort/internal/domain"
)

// ErrQueueFull is returned by Dispatcher.Publish when the buffer is full.
var ErrQueueFull = errors.New("event queue is full")

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.ScenarioEvent) error
}

// Dispatcher decouples request handling from the broker: Publish enqueues
// and a background worker started with Start delivers to the sink.
type Dispatcher struct {
	sink         Publisher
	queue        chan *domain.ScenarioEvent
	logger       zerolog.Logger
	drainTimeout time.Duration
}

// Config for Dispatcher.
type Config struct {
	Sink         Publisher
	Logger       zerolog.Logger
	BufferSize   int           // Number of events held before Publish fails
	DrainTimeout time.Duration // Time allowed to flush the queue on shutdown
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 256
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}

	return &Dispatcher{
		sink:         cfg.Sink,
		queue:        make(chan *domain.ScenarioEvent, cfg.BufferSize),
		logger:       cfg.Logger.With().Str("component", "event_dispatcher").Logger(),
		drainTimeout: cfg.DrainTimeout,
	}
}

// Publish enqueues the event without waiting for delivery.
func (d *Dispatcher) Publish(ctx context.Context, event *domain.ScenarioEvent) error {
	select {
	case d.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Start delivers queued events until the context is cancelled, then
// flushes what is left within the drain timeout.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info().Int("buffer_size", cap(d.queue)).Msg("event dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.drain()
			d.logger.Info().Msg("event dispatcher shutting down")
			return ctx.Err()
		case event := <-d.queue:
			d.deliver(ctx, event)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), d.drainTimeout)
	defer cancel()

	for {
		select {
		case event := <-d.queue:
			d.deliver(ctx, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event *domain.ScenarioEvent) {
	if err := d.sink.Publish(ctx, event); err != nil {
		d.logger.Error().Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Msg("failed to publish event")
		return
	}

	d.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Msg("event published")
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.ScenarioEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("scenario_id", event.ScenarioID).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}
