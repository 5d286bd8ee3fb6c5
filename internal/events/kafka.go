package events

import (
	"context"
	"encoding/json"
	"time"

	kgo "github.com/segmentio/kafka-go"

	"ivrbot/internal/pipeline"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kgo.Message) error
	Close() error
}

// Kafka writes reports to a topic, keyed by run id.
type Kafka struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafka(brokers []string, topic string) *Kafka {
	w := &kgo.Writer{
		Addr:         kgo.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kgo.LeastBytes{},
		RequiredAcks: kgo.RequireOne,
	}
	return &Kafka{writer: w, timeout: 3 * time.Second}
}

func (k *Kafka) Close() error { return k.writer.Close() }

// Report implements pipeline.Reporter.
func (k *Kafka) Report(ctx context.Context, r pipeline.Report) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	return k.writer.WriteMessages(cctx, kgo.Message{
		Key:   []byte(r.RunID),
		Value: b,
		Time:  time.Now(),
	})
}
