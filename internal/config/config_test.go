package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.KafkaTopic != "fpti-beacons" {
		t.Errorf("KafkaTopic = %q, want %q", cfg.KafkaTopic, "fpti-beacons")
	}
	if cfg.KafkaGroupID != "fpti-beacon-worker" {
		t.Errorf("KafkaGroupID = %q, want %q", cfg.KafkaGroupID, "fpti-beacon-worker")
	}
	if cfg.ServiceName != "shopping-fpti" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "shopping-fpti")
	}
	if cfg.BeaconTimeoutRaw != "5s" {
		t.Errorf("BeaconTimeoutRaw = %q, want %q", cfg.BeaconTimeoutRaw, "5s")
	}
	if cfg.OTLPInsecure {
		t.Error("OTLPInsecure should default to false")
	}
	if cfg.ClientID != "" || cfg.MerchantIDs != "" || cfg.LokiURL != "" || cfg.OTLPEndpoint != "" {
		t.Errorf("optional fields should default to empty: %+v", cfg)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("FPTI_CLIENT_ID", "client-abc")
	os.Setenv("FPTI_MERCHANT_IDS", "M1, M2")
	os.Setenv("FPTI_PARTNER_ATTRIBUTION_ID", "BN-1")
	os.Setenv("FPTI_PROGRAM_ID", "prog-42")
	os.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.ClientID != "client-abc" {
		t.Errorf("ClientID = %q, want %q", cfg.ClientID, "client-abc")
	}
	if cfg.MerchantIDs != "M1, M2" {
		t.Errorf("MerchantIDs = %q, want %q", cfg.MerchantIDs, "M1, M2")
	}
	if cfg.PartnerAttributionID != "BN-1" {
		t.Errorf("PartnerAttributionID = %q, want %q", cfg.PartnerAttributionID, "BN-1")
	}
	if cfg.ProgramID != "prog-42" {
		t.Errorf("ProgramID = %q, want %q", cfg.ProgramID, "prog-42")
	}
	if !cfg.OTLPInsecure {
		t.Error("OTLPInsecure should be true")
	}
}

func TestLoad_ProductionRequiresClientID(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load should return error when FPTI_CLIENT_ID is empty and APP_ENV=production")
	}
	if cfg != nil {
		t.Error("Load should return nil config on error")
	}
	if err.Error() != "config: FPTI_CLIENT_ID must be set when APP_ENV=production" {
		t.Errorf("error = %q, want client id message", err.Error())
	}

	os.Setenv("FPTI_CLIENT_ID", "client-abc")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with client id: %v", err)
	}
}

func TestBeaconTimeout(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"valid", "2s", 2 * time.Second},
		{"millis", "750ms", 750 * time.Millisecond},
		{"invalid", "soon", 5 * time.Second},
		{"zero", "0", 5 * time.Second},
		{"negative", "-1s", 5 * time.Second},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("BEACON_TIMEOUT", tc.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got := cfg.BeaconTimeout(); got != tc.want {
				t.Errorf("BeaconTimeout = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKafkaBrokersList(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "localhost:9092", []string{"localhost:9092"}},
		{"multiple with spaces", " a:9092 , b:9092 ", []string{"a:9092", "b:9092"}},
		{"blank entries", "a:9092,,", []string{"a:9092"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{KafkaBrokers: tc.raw}
			got := cfg.KafkaBrokersList()
			if len(got) != len(tc.want) {
				t.Fatalf("KafkaBrokersList = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("KafkaBrokersList[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}

	var nilCfg *Config
	if nilCfg.KafkaBrokersList() != nil {
		t.Error("nil config should return nil broker list")
	}
}
