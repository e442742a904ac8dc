package logger

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.in, got, tt.expected)
			}
		})
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	if RequestIDFrom(ctx) != "" {
		t.Error("空上下文不应有请求ID")
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	if got := RequestIDFrom(ctx); got != "req-1" {
		t.Errorf("RequestIDFrom() = %q", got)
	}
	if WithContext(ctx) == nil {
		t.Error("WithContext() 不应返回 nil")
	}
}
