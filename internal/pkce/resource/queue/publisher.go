// Package queue publishes security events to RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/domain"
)

// SecurityEventsQueue is the durable queue every event is routed to.
const SecurityEventsQueue = "security.events"

const (
	dialTimeout           = 5 * time.Second
	heartbeat             = 10 * time.Second
	defaultReconnectDelay = 2 * time.Second
)

// ErrNotConnected is returned by Publish while the broker connection is down.
var ErrNotConnected = errors.New("rabbitmq: not connected")

// Publisher owns one connection and channel. Publish never dials: when the
// connection has dropped it fails fast with ErrNotConnected and a single
// background goroutine re-dials until it succeeds or Close is called.
type Publisher struct {
	url            string
	logger         *slog.Logger
	reconnectDelay time.Duration

	mu           sync.Mutex
	conn         *amqp.Connection
	ch           *amqp.Channel
	reconnecting bool
	closed       bool

	done chan struct{}
	wg   sync.WaitGroup
}

func newPublisher(url string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		url:            url,
		logger:         logger,
		reconnectDelay: defaultReconnectDelay,
		done:           make(chan struct{}),
	}
}

// Dial connects to url and declares the queue.
func Dial(url string, logger *slog.Logger) (*Publisher, error) {
	p := newPublisher(url, logger)
	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return p, nil
}

func dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: heartbeat,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		SecurityEventsQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: declare queue: %w", err)
	}

	return conn, ch, nil
}

// Publish sends event as a persistent JSON message, bounded by ctx.
func (p *Publisher) Publish(ctx context.Context, event domain.SecurityEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	p.mu.Lock()
	if p.ch == nil || p.ch.IsClosed() || p.conn.IsClosed() {
		p.startReconnectLocked()
		p.mu.Unlock()
		return ErrNotConnected
	}
	ch := p.ch
	p.mu.Unlock()

	err = ch.PublishWithContext(ctx,
		"",                  // default exchange
		SecurityEventsQueue, // routing key = queue name
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Type:         event.Event,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

func (p *Publisher) startReconnectLocked() {
	if p.reconnecting || p.closed {
		return
	}
	p.reconnecting = true
	p.closeConnLocked()

	p.wg.Add(1)
	go p.reconnect()
}

func (p *Publisher) reconnect() {
	defer p.wg.Done()

	for {
		conn, ch, err := dial(p.url)

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			if err == nil {
				_ = ch.Close()
				_ = conn.Close()
			}
			return
		}
		if err == nil {
			p.conn, p.ch = conn, ch
			p.reconnecting = false
			p.mu.Unlock()
			p.logger.Info("rabbitmq reconnected")
			return
		}
		p.mu.Unlock()

		p.logger.Warn("rabbitmq reconnect failed", "error", err, "retry_in", p.reconnectDelay)
		select {
		case <-p.done:
			return
		case <-time.After(p.reconnectDelay):
		}
	}
}

// Close stops any reconnect attempt and closes the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeConnLocked()
}

func (p *Publisher) closeConnLocked() error {
	var err error
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		if !p.conn.IsClosed() {
			err = p.conn.Close()
		}
		p.conn = nil
	}
	return err
}
