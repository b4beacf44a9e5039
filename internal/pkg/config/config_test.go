package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Server:    ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		NATS:      NATSConfig{URL: "nats://localhost:4222"},
		Telemetry: TelemetryConfig{Exporter: "otlp", SampleRatio: 1},
		Session:   SessionConfig{MaxSessions: 16, HighlightColor: "red", MarkerAlignment: "nearest"},
		Log:       LogConfig{Level: "info", Format: "json"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_AggregatesProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Session.MaxSessions = 0
	cfg.Session.MarkerAlignment = "closest"
	cfg.NATS = NATSConfig{Enabled: true}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "session.max_sessions", "session.marker_alignment", "nats.url"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidate_TelemetryExporterOnlyCheckedWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Telemetry.Exporter = "jaeger"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled telemetry should not be validated: %v", err)
	}

	cfg.Telemetry.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected exporter error when telemetry enabled")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PARCELMAP_SESSION_MAX_SESSIONS", "3")
	t.Setenv("PARCELMAP_SESSION_HIGHLIGHT_COLOR", "orange")
	t.Setenv("PARCELMAP_LOG_LEVEL", "debug")

	cfg, err := Load("parcelmap-api")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.MaxSessions != 3 {
		t.Errorf("max_sessions = %d, want 3", cfg.Session.MaxSessions)
	}
	if cfg.Session.HighlightColor != "orange" {
		t.Errorf("highlight_color = %q, want orange", cfg.Session.HighlightColor)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Telemetry.ServiceName != "parcelmap-api" {
		t.Errorf("service_name = %q, want parcelmap-api", cfg.Telemetry.ServiceName)
	}
	if cfg.Session.MarkerAlignment != "nearest" {
		t.Errorf("marker_alignment = %q, want nearest", cfg.Session.MarkerAlignment)
	}
}
