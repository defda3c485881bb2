package httpclient

import (
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != defaultTimeout {
		t.Errorf("expected default timeout %v, got %v", defaultTimeout, cfg.Timeout)
	}
	if cfg.ResponseHeaderTimeout != defaultResponseHeaderTimeout {
		t.Errorf("unexpected header timeout %v", cfg.ResponseHeaderTimeout)
	}
	if cfg.UserAgent != "inkflow" || cfg.MaxErrorBody != defaultMaxErrorBody {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Retry.MaxAttempts < 1 {
		t.Errorf("expected retry defaults, got %+v", cfg.Retry)
	}
}

func TestConfig_ApplyDefaults_PreservesExisting(t *testing.T) {
	cfg := Config{Timeout: 10 * time.Second, UserAgent: "custom"}
	cfg.ApplyDefaults()
	if cfg.Timeout != 10*time.Second || cfg.UserAgent != "custom" {
		t.Errorf("explicit values must be kept, got %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{}
	valid.ApplyDefaults()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative timeout", func(c *Config) { c.Timeout = -1 }, true},
		{"negative header timeout", func(c *Config) { c.ResponseHeaderTimeout = -1 }, true},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("expected error=%v, got %v", tc.wantErr, err)
			}
		})
	}
}
