package apm

import (
	"context"
	"testing"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

func TestParseProvider(t *testing.T) {
	tests := map[string]Provider{
		"zipkin":   ZipkinProvider,
		" OTLP ":   OTLPProvider,
		"console":  ConsoleProvider,
		"none":     EmptyProvider,
		"newrelic": EmptyProvider,
		"":         EmptyProvider,
	}
	for in, want := range tests {
		if got := ParseProvider(in); got != want {
			t.Errorf("ParseProvider(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewTraceProvider(t *testing.T) {
	tp, err := NewTraceProvider(context.Background(), Config{Provider: EmptyProvider}, &mockLogger{})
	if err != nil {
		t.Fatalf("empty provider: %v", err)
	}
	if err := tp.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}

	tp, err = NewTraceProvider(context.Background(), Config{Provider: ConsoleProvider, ServiceName: "test"}, &mockLogger{})
	if err != nil {
		t.Fatalf("console provider: %v", err)
	}
	if err := tp.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}

	if _, err := NewTraceProvider(context.Background(), Config{Provider: "jaeger"}, &mockLogger{}); err == nil {
		t.Error("expected error for unsupported provider")
	}
}
