// internal/config/config_test.go

package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadBytes(t *testing.T) {
	yaml := `
input:
  csv: leads.csv
workers: 4
fetch:
  mode: browser
  proxy_endpoint: http://proxy.internal:8080
  allowed_domain: truepeoplesearch.com
  retry_attempts: 5
store:
  backend: postgres
  dsn: postgres://app:secret@db/leads
export:
  csv: out/enriched.csv
log_level: debug
`
	cfg, err := LoadBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}

	if cfg.Input.CSV != "leads.csv" {
		t.Errorf("input csv = %q", cfg.Input.CSV)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if cfg.Fetch.Mode != "browser" || cfg.Fetch.RetryAttempts != 5 {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}
	if cfg.Store.Backend != "postgres" {
		t.Errorf("backend = %q", cfg.Store.Backend)
	}

	// Unset fields take defaults.
	if cfg.Fetch.Timeout != 90*time.Second {
		t.Errorf("timeout default = %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.RetryDelay != time.Second {
		t.Errorf("retry delay default = %v", cfg.Fetch.RetryDelay)
	}
	if cfg.Debug.Samples != 5 {
		t.Errorf("debug samples default = %d", cfg.Debug.Samples)
	}
	if cfg.Export.Sheet != "Leads" {
		t.Errorf("sheet default = %q", cfg.Export.Sheet)
	}
}

func TestLoadBytesExpandsEnv(t *testing.T) {
	t.Setenv("LEADS_DSN", "postgres://app:pw@db/leads")

	cfg, err := LoadBytes([]byte("store:\n  backend: postgres\n  dsn: ${LEADS_DSN}\n"))
	if err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	if cfg.Store.DSN != "postgres://app:pw@db/leads" {
		t.Errorf("dsn = %q", cfg.Store.DSN)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Workers)
	}
	if cfg.Fetch.Mode != "http" {
		t.Errorf("mode = %q", cfg.Fetch.Mode)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("backend = %q", cfg.Store.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad fetch mode", "fetch:\n  mode: carrier_pigeon\n", "fetch mode"},
		{"bad backend", "store:\n  backend: cassandra\n", "store backend"},
		{"sql without dsn", "store:\n  backend: mysql\n", "requires a dsn"},
		{"mongo without database", "store:\n  backend: mongodb\n  dsn: mongodb://db\n", "database name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
