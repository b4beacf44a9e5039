package http

import (
	"log/slog"
	"testing"
)

func TestAccessLevel(t *testing.T) {
	tests := []struct {
		path   string
		status int
		want   slog.Level
	}{
		{"/v1/sessions", 200, slog.LevelInfo},
		{"/v1/health", 200, slog.LevelDebug},
		{"/metrics", 200, slog.LevelDebug},
		{"/v1/ready", 503, slog.LevelError},
		{"/v1/sessions/x", 404, slog.LevelWarn},
		{"/v1/sessions/x/save-all", 500, slog.LevelError},
	}

	for _, tt := range tests {
		if got := accessLevel(tt.path, tt.status); got != tt.want {
			t.Errorf("accessLevel(%s, %d) = %s, want %s", tt.path, tt.status, got, tt.want)
		}
	}
}
