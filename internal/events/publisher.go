// Package events publishes box mutations to Kafka. Publishing never holds
// up a mutation: events are queued and written by a background loop, and
// the queue drops events rather than block when it is full.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

const DefaultTopic = "box-events"

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	BufferSize   int
	WriteTimeout time.Duration
	// Breaker opens after this many consecutive write failures.
	MaxFailures uint32
	OpenTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		BufferSize:   1024,
		WriteTimeout: 5 * time.Second,
		MaxFailures:  5,
		OpenTimeout:  30 * time.Second,
	}
}

type Publisher struct {
	writer  MessageWriter
	queue   chan domain.Event
	breaker *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration

	mu      sync.Mutex
	dropped int
}

func NewKafkaWriter(topic string, brokers ...string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func NewPublisher(writer MessageWriter, cfg Config) *Publisher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}

	settings := gobreaker.Settings{
		Name:    "box-events",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return cfg.MaxFailures > 0 && counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}

	return &Publisher{
		writer:  writer,
		queue:   make(chan domain.Event, cfg.BufferSize),
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		timeout: cfg.WriteTimeout,
	}
}

// Observe queues ev for publishing.
func (p *Publisher) Observe(ev domain.Event) {
	select {
	case p.queue <- ev:
	default:
		p.mu.Lock()
		p.dropped++
		p.mu.Unlock()
		log.Warn().Str("box_id", ev.BoxID).Str("type", string(ev.Type)).Msg("event buffer full, dropping event")
	}
}

// Dropped is the number of events lost to a full buffer.
func (p *Publisher) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Run writes queued events until ctx is done, then flushes what is left
// with a fresh deadline.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case ev := <-p.queue:
			p.publish(ctx, ev)
		case <-ctx.Done():
			p.drain()
			return
		}
	}
}

func (p *Publisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	for {
		select {
		case ev := <-p.queue:
			p.publish(ctx, ev)
		default:
			return
		}
	}
}

func (p *Publisher) publish(ctx context.Context, ev domain.Event) {
	msg, err := encode(ev)
	if err != nil {
		log.Error().Err(err).Str("box_id", ev.BoxID).Msg("failed to encode event")
		return
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		wctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return struct{}{}, p.writer.WriteMessages(wctx, msg)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Debug().Str("box_id", ev.BoxID).Msg("circuit open, event skipped")
			return
		}
		log.Error().Err(err).Str("box_id", ev.BoxID).Str("type", string(ev.Type)).Msg("failed to publish event")
	}
}

// encode keys messages by box so one box's events stay ordered.
func encode(ev domain.Event) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(ev.BoxID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}, nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
