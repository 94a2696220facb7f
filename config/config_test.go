package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "google:\n  client_id: cid\n  client_secret: cs\nsession:\n  secret: s3cret\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8000 {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Storage.DataDir != "data" {
		t.Fatalf("unexpected data dir default: %q", cfg.Storage.DataDir)
	}
	if cfg.Redis.Port != 6379 || cfg.Redis.OAuthStateExpire != 600 {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.Session.CookieName != "marksync_session" || cfg.Session.ExpireHours != 720 || cfg.Session.SameSite != "lax" {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Google.ClientID != "cid" {
		t.Fatalf("explicit values must survive, got %q", cfg.Google.ClientID)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadConfigKeepsExplicitValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  host: 0.0.0.0\n  port: 9000\nstorage:\n  data_dir: /var/lib/marksync\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9000 {
		t.Fatalf("explicit server values must survive: %+v", cfg.Server)
	}
	if cfg.Storage.DataDir != "/var/lib/marksync" {
		t.Fatalf("explicit data dir must survive: %q", cfg.Storage.DataDir)
	}
}
