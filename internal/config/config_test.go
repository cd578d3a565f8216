package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tiller-ui/tiller/internal/errors"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Entry != DefaultEntry {
		t.Errorf("entry: got %q, want %q", cfg.Entry, DefaultEntry)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("output: got %q, want %q", cfg.Output, DefaultOutput)
	}
	if cfg.RootPath != "/" {
		t.Errorf("rootPath: got %q, want /", cfg.RootPath)
	}
	if cfg.Dev.Port != DefaultPort {
		t.Errorf("port: got %d, want %d", cfg.Dev.Port, DefaultPort)
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	dir := t.TempDir()
	content := `{"name": "myapp", "dev": {"port": 8080}}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Name != "myapp" {
		t.Errorf("name: got %q, want myapp", cfg.Name)
	}
	if cfg.Dev.Port != 8080 {
		t.Errorf("port: got %d, want 8080", cfg.Dev.Port)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("host default not applied: got %q", cfg.Dev.Host)
	}
	if cfg.Entry != DefaultEntry {
		t.Errorf("entry default not applied: got %q", cfg.Entry)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	var terr *errors.Error
	if !stderrors.As(err, &terr) || terr.Code != "E101" {
		t.Errorf("got %v, want E101", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Name = "roundtrip"
	cfg.Deploy.Bucket = "my-bucket"
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != "roundtrip" {
		t.Errorf("name: got %q", loaded.Name)
	}
	if loaded.Deploy.Bucket != "my-bucket" {
		t.Errorf("bucket: got %q", loaded.Deploy.Bucket)
	}
}

func TestAddr(t *testing.T) {
	cfg := New()
	if got := cfg.Addr(); got != "localhost:3000" {
		t.Errorf("default addr: got %q", got)
	}

	cfg.Dev.Host = "0.0.0.0"
	cfg.Dev.Port = 9000
	if got := cfg.Addr(); got != "0.0.0.0:9000" {
		t.Errorf("custom addr: got %q", got)
	}

	// Zero values fall back per field.
	cfg.Dev.Host = ""
	cfg.Dev.Port = 0
	if got := cfg.Addr(); got != "localhost:3000" {
		t.Errorf("fallback addr: got %q", got)
	}
}
