package beacon

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shopping-fpti/internal/telemetry/domain"
)

func TestFanout_SendsToAllSinks(t *testing.T) {
	var calls []string
	record := func(name string, err error) Named {
		return Named{Name: name, Sender: SenderFunc(func(ctx context.Context, b *domain.Beacon) error {
			calls = append(calls, name)
			return err
		})}
	}
	f := NewFanout(record("http", nil), record("kafka", errors.New("broker down")), record("loki", nil))
	err := f.Send(context.Background(), &domain.Beacon{ID: "b1"})
	if err == nil {
		t.Fatal("Send should report the kafka failure")
	}
	if !strings.Contains(err.Error(), "kafka: broker down") {
		t.Errorf("error = %q, want sink name prefix", err)
	}
	if strings.Join(calls, ",") != "http,kafka,loki" {
		t.Errorf("calls = %v, want all three sinks in order", calls)
	}
}

func TestFanout_SkipsNilSenders(t *testing.T) {
	f := NewFanout(Named{Name: "none"}, Named{Name: "ok", Sender: SenderFunc(func(context.Context, *domain.Beacon) error { return nil })})
	if f.Len() != 1 {
		t.Errorf("Len = %d, want 1", f.Len())
	}
	if err := f.Send(context.Background(), nil); err != nil {
		t.Errorf("Send(nil): %v", err)
	}
}
