// Package loki mirrors tracking beacons to Grafana Loki.
package loki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"shopping-fpti/internal/telemetry"
	"shopping-fpti/internal/telemetry/domain"
)

// PushRequest is the Loki push API request body (v1).
type PushRequest struct {
	Streams []Stream `json:"streams"`
}

// Stream is a single stream with labels and log entries.
type Stream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"` // each entry is [timestamp_ns, log_line]
}

// labelSanitize replaces characters that are invalid in Loki label values.
var labelSanitize = regexp.MustCompile(`[^a-zA-Z0-9_\-:]`)

// labelKeys are the constant tracking variables promoted to stream labels. event_name is
// added separately as its event kind; the raw name stays in the log line.
var labelKeys = []string{domain.KeyProduct}

// Sender pushes each beacon as one JSON log line.
type Sender struct {
	baseURL string
	client  *http.Client
}

// NewSender returns a Loki Sender for baseURL (e.g. http://localhost:3100).
// client may be nil; then http.DefaultClient is used.
func NewSender(baseURL string, client *http.Client) *Sender {
	if client == nil {
		client = http.DefaultClient
	}
	return &Sender{baseURL: baseURL, client: client}
}

func (s *Sender) Send(ctx context.Context, b *domain.Beacon) error {
	if b == nil {
		return nil
	}
	line, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return PushEvent(ctx, s.client, s.baseURL, b.CreatedAt, string(line), beaconLabels(b))
}

func beaconLabels(b *domain.Beacon) map[string]string {
	labels := make(map[string]string, len(labelKeys)+1)
	if v, ok := b.Params[domain.KeyEventName]; ok {
		labels[domain.KeyEventName] = telemetry.ParseEventKind(domain.FormatValue(v)).String()
	}
	for _, k := range labelKeys {
		if v, ok := b.Params[k]; ok {
			labels[k] = domain.FormatValue(v)
		}
	}
	return labels
}

// PushBeaconJSON parses a mirrored beacon (Kafka message value), extracts timestamp and labels,
// and pushes it to Loki. If parsing fails, the raw line is pushed with current time and no extra labels.
func PushBeaconJSON(ctx context.Context, baseURL string, rawJSON []byte) error {
	labels := map[string]string{}
	ts := time.Now().UTC()
	var b domain.Beacon
	if err := json.Unmarshal(rawJSON, &b); err == nil {
		labels = beaconLabels(&b)
		if !b.CreatedAt.IsZero() {
			ts = b.CreatedAt
		}
	}
	return PushEvent(ctx, http.DefaultClient, baseURL, ts, string(rawJSON), labels)
}

// PushEvent sends a single log line to Loki at the given base URL.
// labels are added to the stream next to job=fpti. Returns an error if the HTTP request fails
// or Loki returns non-2xx.
func PushEvent(ctx context.Context, client *http.Client, baseURL string, timestamp time.Time, line string, labels map[string]string) error {
	if baseURL == "" {
		return fmt.Errorf("loki: base URL is empty")
	}
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	streamLabels := make(map[string]string, len(labels)+1)
	streamLabels["job"] = "fpti"
	for k, v := range labels {
		sanitized := labelSanitize.ReplaceAllString(strings.TrimSpace(v), "_")
		if sanitized != "" {
			streamLabels[k] = sanitized
		}
	}
	body := PushRequest{
		Streams: []Stream{{
			Stream: streamLabels,
			Values: [][]string{{fmt.Sprintf("%d", timestamp.UnixNano()), line}},
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	url := strings.TrimSuffix(baseURL, "/") + "/loki/api/v1/push"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("loki: push returned %s", resp.Status)
	}
	return nil
}
