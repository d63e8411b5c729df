// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// ClientID is reported as client_id on every beacon.
	ClientID string `mapstructure:"FPTI_CLIENT_ID"`
	// MerchantIDs is a comma-separated list of merchant ids; the first one is reported as mrid.
	MerchantIDs string `mapstructure:"FPTI_MERCHANT_IDS"`
	// PartnerAttributionID is reported as bn_code.
	PartnerAttributionID string `mapstructure:"FPTI_PARTNER_ATTRIBUTION_ID"`
	// ProgramID is the store-cash program id from the container summary; enables offer_id on page views.
	ProgramID string `mapstructure:"FPTI_PROGRAM_ID"`
	// PropertyID is the container property id used when the record carries none.
	PropertyID string `mapstructure:"FPTI_PROPERTY_ID"`
	// ContextFile is an optional YAML or JSON file of common fields merged under every record.
	ContextFile string `mapstructure:"FPTI_CONTEXT_FILE"`

	// BeaconTimeoutRaw bounds a single beacon send (e.g. "5s").
	BeaconTimeoutRaw string `mapstructure:"BEACON_TIMEOUT"`
	// BeaconUserAgent is sent as User-Agent on HTTP beacons and OTLP exports. Empty keeps the library default.
	BeaconUserAgent string `mapstructure:"BEACON_USER_AGENT"`

	// HTTPAddr is the address the relay server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// Mirror sinks (optional). When Kafka brokers are set, every beacon is also produced to Kafka.
	// KafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// KafkaTopic is the Kafka topic for mirrored beacons (default fpti-beacons).
	KafkaTopic string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`
	// KafkaGroupID is the consumer group ID for the beacon worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	// LokiURL is the Loki base URL (e.g. http://localhost:3100). Used by the client as a direct sink and by the worker.
	LokiURL string `mapstructure:"LOKI_URL"`

	// OTLPEndpoint is the OpenTelemetry collector endpoint (host:port or URL). Empty disables OTel export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces a plaintext connection to the collector.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is the OTel service.name resource attribute.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

const defaultBeaconTimeout = 5 * time.Second

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("FPTI_CLIENT_ID", "")
	v.SetDefault("FPTI_MERCHANT_IDS", "")
	v.SetDefault("FPTI_PARTNER_ATTRIBUTION_ID", "")
	v.SetDefault("FPTI_PROGRAM_ID", "")
	v.SetDefault("FPTI_PROPERTY_ID", "")
	v.SetDefault("FPTI_CONTEXT_FILE", "")
	v.SetDefault("BEACON_TIMEOUT", "5s")
	v.SetDefault("BEACON_USER_AGENT", "")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "fpti-beacons")
	v.SetDefault("KAFKA_GROUP_ID", "fpti-beacon-worker")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "shopping-fpti")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.Env == "production" && cfg.ClientID == "" {
		return nil, errors.New("config: FPTI_CLIENT_ID must be set when APP_ENV=production")
	}
	if len(cfg.KafkaBrokersList()) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("config: TELEMETRY_KAFKA_TOPIC must be set when KAFKA_BROKERS is set")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "shopping-fpti"
	}

	return &cfg, nil
}

// BeaconTimeout parses BeaconTimeoutRaw as a time.Duration. Returns 5s if unset or invalid.
func (c *Config) BeaconTimeout() time.Duration {
	d, err := time.ParseDuration(c.BeaconTimeoutRaw)
	if err != nil || d <= 0 {
		return defaultBeaconTimeout
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if the Kafka mirror is enabled (non-empty list) and to create the producer and reader.
func (c *Config) KafkaBrokersList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.KafkaBrokers)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
