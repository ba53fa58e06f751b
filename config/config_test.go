package config

import (
	"testing"
	"time"
)

func TestEnvOr(t *testing.T) {
	t.Setenv("TEST_ENV_OR", "set")
	if got := envOr("TEST_ENV_OR", "fallback"); got != "set" {
		t.Errorf("expected set value, got %q", got)
	}
	if got := envOr("TEST_ENV_OR_MISSING", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "valid", value: "7", want: 7},
		{name: "empty", value: "", want: 5},
		{name: "garbage", value: "seven", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_INT", tt.value)
			if got := envInt("TEST_ENV_INT", 5); got != tt.want {
				t.Errorf("envInt = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEnvDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "valid", value: "90s", want: 90 * time.Second},
		{name: "empty", value: "", want: time.Minute},
		{name: "garbage", value: "soon", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_DURATION", tt.value)
			if got := envDuration("TEST_ENV_DURATION", time.Minute); got != tt.want {
				t.Errorf("envDuration = %s, want %s", got, tt.want)
			}
		})
	}
}
