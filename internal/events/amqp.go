// Package events publishes pipeline outcomes to message brokers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"ivrbot/internal/pipeline"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// AMQP publishes reports to a topic exchange with routing key
// "report.<action>". The connection is opened lazily and reopened after it
// drops.
type AMQP struct {
	url      string
	exchange string

	mu   sync.Mutex
	ch   channel
	conn io.Closer
	dial func() (channel, io.Closer, error)
}

func NewAMQP(url, exchange string) *AMQP {
	a := &AMQP{url: url, exchange: exchange}
	a.dial = a.dialBroker
	return a
}

func (a *AMQP) dialBroker() (channel, io.Closer, error) {
	conn, err := amqp.Dial(a.url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		a.exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange %s: %w", a.exchange, err)
	}
	return ch, conn, nil
}

// Report implements pipeline.Reporter.
func (a *AMQP) Report(ctx context.Context, r pipeline.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ch == nil || a.ch.IsClosed() {
		a.closeLocked()
		ch, conn, err := a.dial()
		if err != nil {
			return err
		}
		a.ch, a.conn = ch, conn
	}

	return a.ch.PublishWithContext(ctx, a.exchange, routingKey(r), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    r.RunID,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func routingKey(r pipeline.Report) string {
	action := string(r.Action)
	if action == "" {
		action = "unknown"
	}
	return "report." + action
}

func (a *AMQP) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closeLocked()
}

func (a *AMQP) closeLocked() error {
	var err error
	if a.ch != nil {
		err = a.ch.Close()
		a.ch = nil
	}
	if a.conn != nil {
		if cerr := a.conn.Close(); err == nil {
			err = cerr
		}
		a.conn = nil
	}
	return err
}
