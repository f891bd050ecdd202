package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigWithDefaults_MissingFile(t *testing.T) {
	cfg, err := LoadConfigWithDefaults(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should give defaults: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chemviz.json")
	body := `{"api_url":"https://svc.example","fetch_floor":"250ms","http_timeout":5000000000}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigWithDefaults(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://svc.example" || cfg.FetchFloor.Std() != 250*time.Millisecond || cfg.HTTPTimeout.Std() != 5*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.ReportPrefix != "ChemViz_Report" {
		t.Fatalf("absent field lost its default: %q", cfg.ReportPrefix)
	}
}

func TestLoadConfig_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"fetch_floor":"soon"}`), 0o644)
	if _, err := LoadConfigWithDefaults(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestApplyEnv_FileThenProcess(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(envFile, []byte("CHEMVIZ_API_URL=http://from-file:8000\nCHEMVIZ_TOKEN=abc\n"), 0o644)
	t.Setenv(EnvToken, "from-process")
	cfg := Default()
	if err := ApplyEnv(&cfg, envFile); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.APIURL != "http://from-file:8000" {
		t.Fatalf("api url = %q", cfg.APIURL)
	}
	if cfg.Token != "from-process" {
		t.Fatalf("process env should win, token = %q", cfg.Token)
	}
	if err := ApplyEnv(&cfg, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	cfg.APIURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("empty api url accepted")
	}
	cfg = Default()
	cfg.FetchFloor = Duration(-time.Second)
	if err := cfg.Validate(); err == nil {
		t.Fatalf("negative floor accepted")
	}
}
