package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/api-sage/account-ledger/src/internal/ledger"
	"github.com/segmentio/kafka-go"
)

type messageWriterStub struct {
	msgs []kafka.Message
	err  error
}

func (s *messageWriterStub) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func (s *messageWriterStub) Close() error { return nil }

func TestPublisherKeysByAccount(t *testing.T) {
	stub := &messageWriterStub{}
	p := &Publisher{writer: stub, topic: "ledger"}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	err := p.Write(context.Background(), []ledger.Notification{
		{AccountID: 10000000, Seq: 1, Op: ledger.OpDeposit, At: at, Changes: []ledger.Change{{Property: ledger.PropLocked, Old: false, New: true}}},
		{AccountID: 10000001, Seq: 7, Op: ledger.OpLock, At: at},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(stub.msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(stub.msgs))
	}
	if string(stub.msgs[0].Key) != "10000000" || string(stub.msgs[1].Key) != "10000001" {
		t.Fatalf("unexpected keys %q %q", stub.msgs[0].Key, stub.msgs[1].Key)
	}
	if string(stub.msgs[0].Headers[0].Value) != ledger.OpDeposit {
		t.Fatalf("unexpected op header %q", stub.msgs[0].Headers[0].Value)
	}

	var decoded ledger.Notification
	if err := json.Unmarshal(stub.msgs[0].Value, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.AccountID != 10000000 || decoded.Seq != 1 || len(decoded.Changes) != 1 {
		t.Fatalf("unexpected payload %+v", decoded)
	}
	if p.Name() != "kafka:ledger" {
		t.Fatalf("unexpected name %q", p.Name())
	}
}

func TestPublisherWrapsWriterErrors(t *testing.T) {
	broker := errors.New("broker down")
	p := &Publisher{writer: &messageWriterStub{err: broker}, topic: "ledger"}
	err := p.Write(context.Background(), []ledger.Notification{{AccountID: 1, Seq: 1}})
	if !errors.Is(err, broker) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}
