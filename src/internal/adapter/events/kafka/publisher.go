// Package kafka publishes ledger notifications to a Kafka topic, keyed by
// account so that one account's notifications stay ordered.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/api-sage/account-ledger/src/internal/ledger"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
	topic  string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
		topic: topic,
	}
}

func (p *Publisher) Name() string { return "kafka:" + p.topic }

func (p *Publisher) Write(ctx context.Context, batch []ledger.Notification) error {
	msgs, err := encode(batch)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d notifications: %w", len(msgs), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func encode(batch []ledger.Notification) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(batch))
	for _, n := range batch {
		value, err := json.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("encode notification %d/%d: %w", n.AccountID, n.Seq, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatInt(n.AccountID, 10)),
			Value: value,
			Time:  n.At,
			Headers: []kafka.Header{
				{Key: "op", Value: []byte(n.Op)},
			},
		})
	}
	return msgs, nil
}
