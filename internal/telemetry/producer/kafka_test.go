package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"shopping-fpti/internal/telemetry/domain"
)

type fakeWriter struct {
	msgs     []kafka.Message
	writeErr error
	closed   int
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("write without deadline")
	}
	w.msgs = append(w.msgs, msgs...)
	return w.writeErr
}

func (w *fakeWriter) Close() error {
	w.closed++
	return nil
}

func TestNewKafkaProducer_Disabled(t *testing.T) {
	if p := NewKafkaProducer(nil, "topic"); p != nil {
		t.Error("no brokers should disable the producer")
	}
	if p := NewKafkaProducer([]string{"localhost:9092"}, ""); p != nil {
		t.Error("empty topic should disable the producer")
	}
	var p *KafkaProducer
	if err := p.Send(context.Background(), &domain.Beacon{}); err != nil {
		t.Errorf("nil producer Send: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("nil producer Close: %v", err)
	}
}

func TestKafkaProducer_Send(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaProducer{writer: w, topic: "fpti-beacons"}
	created := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	b := &domain.Beacon{ID: "b1", Endpoint: domain.Endpoint, CreatedAt: created, Params: domain.Variables{"es": "txnSuccess"}}

	if err := p.Send(context.Background(), b); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "b1" {
		t.Errorf("key = %q, want b1", msg.Key)
	}
	if !msg.Time.Equal(created) {
		t.Errorf("time = %v, want %v", msg.Time, created)
	}
	var got domain.Beacon
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("value is not beacon JSON: %v", err)
	}
	if got.ID != "b1" || got.Params["es"] != "txnSuccess" {
		t.Errorf("decoded beacon = %+v", got)
	}
}

func TestKafkaProducer_SendError(t *testing.T) {
	w := &fakeWriter{writeErr: errors.New("leader not available")}
	p := &KafkaProducer{writer: w}
	if err := p.Send(context.Background(), &domain.Beacon{ID: "b1"}); err == nil {
		t.Error("write failure should be returned")
	}
	if err := p.Close(); err != nil || w.closed != 1 {
		t.Errorf("Close err=%v closed=%d", err, w.closed)
	}
}
