package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Component: "api", Output: &buf})

	logger.Info("request started", "method", "GET")

	out := buf.String()
	if !strings.Contains(out, "component=api") {
		t.Errorf("output %q missing component attribute", out)
	}
	if !strings.Contains(out, "method=GET") {
		t.Errorf("output %q missing caller attribute", out)
	}
}

func TestNewDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})

	if logger.Component() != "app" {
		t.Errorf("Component() = %q, want app", logger.Component())
	}

	logger.Debug("hidden at the default level")
	if buf.Len() != 0 {
		t.Errorf("debug record emitted at the default info level: %q", buf.String())
	}
}

func TestWithComponentRescopes(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Component: "api", Output: &buf})

	worker := logger.WithComponent("worker")
	worker.Info("digest generated")

	out := buf.String()
	if !strings.Contains(out, "component=worker") {
		t.Errorf("output %q missing re-scoped component", out)
	}
	if strings.Contains(out, "component=api") {
		t.Errorf("output %q still carries the parent component", out)
	}
	if worker.Component() != "worker" {
		t.Errorf("Component() = %q, want worker", worker.Component())
	}
}

func TestWithKeepsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Component: "api", Output: &buf})

	logger.With("request_id", "req_1").Warn("rate limit exceeded")

	out := buf.String()
	if !strings.Contains(out, "component=api") {
		t.Errorf("output %q lost the component attribute", out)
	}
	if !strings.Contains(out, "request_id=req_1") {
		t.Errorf("output %q missing the bound attribute", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
