package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{
			name:  "variable set",
			key:   "WAYFARE_TEST_VAR",
			value: "tours.yaml",
		},
		{
			name:      "variable not set",
			key:       "WAYFARE_TEST_VAR_MISSING",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "WAYFARE_TEST_DURATION",
			value:    "250ms",
			def:      time.Second,
			expected: 250 * time.Millisecond,
		},
		{
			name:     "invalid duration uses default",
			key:      "WAYFARE_TEST_DURATION_INVALID",
			value:    "soon",
			def:      300 * time.Millisecond,
			expected: 300 * time.Millisecond,
		},
		{
			name:     "missing variable uses default",
			key:      "WAYFARE_TEST_DURATION_MISSING",
			def:      720 * time.Hour,
			expected: 720 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}
			if got := mustDuration(tt.key, tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBoolAndInt(t *testing.T) {
	t.Setenv("WAYFARE_TEST_BOOL", "false")
	t.Setenv("WAYFARE_TEST_BOOL_BAD", "nope")
	t.Setenv("WAYFARE_TEST_INT", "10")
	t.Setenv("WAYFARE_TEST_INT_BAD", "ten")

	if mustBool("WAYFARE_TEST_BOOL", true) {
		t.Error("mustBool() should parse false")
	}
	if !mustBool("WAYFARE_TEST_BOOL_BAD", true) {
		t.Error("mustBool() should fall back to default on invalid input")
	}
	if got := getenvInt("WAYFARE_TEST_INT", 6); got != 10 {
		t.Errorf("getenvInt() = %d, want 10", got)
	}
	if got := getenvInt("WAYFARE_TEST_INT_BAD", 6); got != 6 {
		t.Errorf("getenvInt() = %d, want default 6", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` "10.0.0.0/8", 127.0.0.1 ,, 'tours.example.com'`)
	want := []string{"10.0.0.0/8", "127.0.0.1", "tours.example.com"}
	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if splitAndTrim("") != nil {
		t.Error("splitAndTrim(\"\") should be nil")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WAYFARE_CATALOG_FILE", "/tmp/tours.yaml")

	cfg := Load()

	if cfg.WidgetInitialDelay != 300*time.Millisecond {
		t.Errorf("WidgetInitialDelay = %v, want 300ms", cfg.WidgetInitialDelay)
	}
	if cfg.WidgetPollInterval != 100*time.Millisecond {
		t.Errorf("WidgetPollInterval = %v, want 100ms", cfg.WidgetPollInterval)
	}
	if cfg.WidgetMaxAttempts != 20 {
		t.Errorf("WidgetMaxAttempts = %d, want 20", cfg.WidgetMaxAttempts)
	}
	if cfg.RecentCapacity != 6 {
		t.Errorf("RecentCapacity = %d, want 6", cfg.RecentCapacity)
	}
	if cfg.RecentMaxAge != 30*24*time.Hour {
		t.Errorf("RecentMaxAge = %v, want 720h", cfg.RecentMaxAge)
	}
	if cfg.RedisEnabled() {
		t.Error("redis should be disabled without WAYFARE_REDIS_ADDR")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		WidgetMaxAttempts:  20,
		WidgetPollInterval: 100 * time.Millisecond,
		RecentCapacity:     6,
		RecentMaxAge:       time.Hour,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero attempts", mutate: func(c *Config) { c.WidgetMaxAttempts = 0 }, wantErr: true},
		{name: "zero poll interval", mutate: func(c *Config) { c.WidgetPollInterval = 0 }, wantErr: true},
		{name: "zero capacity", mutate: func(c *Config) { c.RecentCapacity = 0 }, wantErr: true},
		{
			name: "redis password required but empty",
			mutate: func(c *Config) {
				c.RedisAddr = "localhost:6379"
				c.RedisPasswordRequired = true
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
