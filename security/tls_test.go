package security

import (
	"crypto/tls"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writePEM(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ca.pem")
	block := &pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildDisabled(t *testing.T) {
	for _, cfg := range []*TLSConfig{nil, {}} {
		got, err := cfg.Build()
		if err != nil || got != nil {
			t.Errorf("Build(%+v) = %v, %v; want nil, nil", cfg, got, err)
		}
	}
}

func TestBuildSkipVerify(t *testing.T) {
	got, err := (&TLSConfig{SkipVerify: true, ServerName: "api.example.com"}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if !got.InsecureSkipVerify || got.ServerName != "api.example.com" || got.MinVersion != tls.VersionTLS12 {
		t.Errorf("unexpected config %+v", got)
	}
}

func TestBuildCAFileTrustsServer(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg, err := (&TLSConfig{CAFile: writePEM(t, srv)}).Build()
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Transport: &http.Transport{TLSClientConfig: cfg}}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("request with private CA: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("unexpected status %d", resp.StatusCode)
	}
}

func TestBuildErrors(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not a cert"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  TLSConfig
	}{
		{"missing ca file", TLSConfig{CAFile: filepath.Join(t.TempDir(), "none.pem")}},
		{"no certificates", TLSConfig{CAFile: garbage}},
		{"cert without key", TLSConfig{CertFile: "client.pem"}},
		{"key without cert", TLSConfig{KeyFile: "client.key"}},
		{"unreadable pair", TLSConfig{CertFile: garbage, KeyFile: garbage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.Build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
