package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8000")
	}
	if cfg.KafkaTopic != "churn-events" {
		t.Errorf("KafkaTopic = %q, want %q", cfg.KafkaTopic, "churn-events")
	}
	if cfg.KafkaGroupID != "churn-analytics" {
		t.Errorf("KafkaGroupID = %q, want %q", cfg.KafkaGroupID, "churn-analytics")
	}
	if cfg.HistoryCapacity != 500 {
		t.Errorf("HistoryCapacity = %d, want 500", cfg.HistoryCapacity)
	}
	if cfg.LiveFeedCapacity != 100 {
		t.Errorf("LiveFeedCapacity = %d, want 100", cfg.LiveFeedCapacity)
	}
	if cfg.AlertThreshold != 0.70 {
		t.Errorf("AlertThreshold = %v, want 0.70", cfg.AlertThreshold)
	}
	if cfg.RefreshInterval != "30s" {
		t.Errorf("RefreshInterval = %q, want %q", cfg.RefreshInterval, "30s")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("HISTORY_CAPACITY", "50")
	os.Setenv("ALERT_THRESHOLD", "0.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.HistoryCapacity != 50 {
		t.Errorf("HistoryCapacity = %d, want 50", cfg.HistoryCapacity)
	}
	if cfg.AlertThreshold != 0.5 {
		t.Errorf("AlertThreshold = %v, want 0.5", cfg.AlertThreshold)
	}
}

func TestLoad_RejectsInvalidCapacities(t *testing.T) {
	for name, env := range map[string][2]string{
		"history zero":  {"HISTORY_CAPACITY", "0"},
		"live negative": {"LIVE_FEED_CAPACITY", "-1"},
	} {
		t.Run(name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv(env[0], env[1])
			if cfg, err := Load(); err == nil {
				t.Errorf("Load = %+v, want error for %s", cfg, name)
			}
		})
	}
}

func TestLoad_RejectsThresholdOutOfRange(t *testing.T) {
	for _, v := range []string{"-0.1", "1.5"} {
		os.Clearenv()
		os.Setenv("ALERT_THRESHOLD", v)
		if _, err := Load(); err == nil {
			t.Errorf("Load with ALERT_THRESHOLD=%s should return error", v)
		}
	}
}

func TestRefreshEvery(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"10s", 10 * time.Second},
		{"2m", 2 * time.Minute},
		{"invalid", 30 * time.Second},
		{"0", 30 * time.Second},
		{"-5s", 30 * time.Second},
	}
	for _, c := range cases {
		cfg := &Config{RefreshInterval: c.in}
		if got := cfg.RefreshEvery(); got != c.want {
			t.Errorf("RefreshEvery(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestKafkaBrokersList(t *testing.T) {
	cfg := &Config{KafkaBrokers: " localhost:9092 , broker-2:9092,, "}
	got := cfg.KafkaBrokersList()
	want := []string{"localhost:9092", "broker-2:9092"}
	if len(got) != len(want) {
		t.Fatalf("brokers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("brokers[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	empty := &Config{}
	if got := empty.KafkaBrokersList(); got != nil {
		t.Errorf("empty brokers = %v, want nil", got)
	}
}
