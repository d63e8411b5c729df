package producer

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// readRetryDelay is the pause after a failed read before trying again.
const readRetryDelay = time.Second

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// HandleFunc processes one mirrored beacon (the raw JSON message value).
type HandleFunc func(ctx context.Context, key, value []byte) error

// Consume reads mirrored beacons until ctx is done or the reader is closed, calling handle for each.
// Each handle call gets its own timeout. Read and handle errors are logged; beacons are never retried.
func Consume(ctx context.Context, r MessageReader, timeout time.Duration, handle HandleFunc) error {
	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			log.Printf("producer: kafka read error: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(readRetryDelay):
			}
			continue
		}

		hctx, cancel := context.WithTimeout(ctx, timeout)
		if err := handle(hctx, msg.Key, msg.Value); err != nil {
			log.Printf("producer: handle beacon %s failed: %v", msg.Key, err)
		}
		cancel()
	}
}
