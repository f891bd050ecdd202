// Package config loads chemviz settings in layers: built-in defaults, an optional JSON
// file, then a .env file and the process environment. Binaries apply their command-line
// flags last.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Duration is a time.Duration that reads "800ms"-style strings (or integer nanoseconds)
// from JSON.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(n)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds every setting shared by the chemviz binaries.
type Config struct {
	APIURL       string   `json:"api_url"`
	Token        string   `json:"token,omitempty"`
	HTTPTimeout  Duration `json:"http_timeout"`
	FetchFloor   Duration `json:"fetch_floor"`
	DownloadDir  string   `json:"download_dir"`
	ReportPrefix string   `json:"report_prefix"`
	Listen       string   `json:"listen"`
	LogLevel     string   `json:"log_level"`
	// DataDir, when set, serves datasets from CSV files instead of the API.
	DataDir string `json:"data_dir,omitempty"`
}

// Environment variable names read by ApplyEnv.
const (
	EnvAPIURL      = "CHEMVIZ_API_URL"
	EnvToken       = "CHEMVIZ_TOKEN"
	EnvDownloadDir = "CHEMVIZ_DOWNLOAD_DIR"
	EnvLogLevel    = "CHEMVIZ_LOG_LEVEL"
	EnvListen      = "CHEMVIZ_LISTEN"
	EnvDataDir     = "CHEMVIZ_DATA_DIR"
)

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:       "http://127.0.0.1:8000",
		HTTPTimeout:  Duration(30 * time.Second),
		FetchFloor:   Duration(800 * time.Millisecond),
		DownloadDir:  ".",
		ReportPrefix: "ChemViz_Report",
		Listen:       "127.0.0.1:8090",
		LogLevel:     "info",
	}
}

// LoadConfig reads a JSON file over the defaults. Fields absent from the file keep their
// default value.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadConfigWithDefaults is LoadConfig that treats an empty path or a missing file as
// "use defaults".
func LoadConfigWithDefaults(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := LoadConfig(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overlays values from envFile (when it exists) and then from the process
// environment, which wins over the file.
func ApplyEnv(cfg *Config, envFile string) error {
	vals := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			vals = m
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	get := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return vals[key]
	}
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(get(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.APIURL, EnvAPIURL)
	set(&cfg.Token, EnvToken)
	set(&cfg.DownloadDir, EnvDownloadDir)
	set(&cfg.LogLevel, EnvLogLevel)
	set(&cfg.Listen, EnvListen)
	set(&cfg.DataDir, EnvDataDir)
	return nil
}

// Load runs the file and env layers in order.
func Load(path, envFile string) (Config, error) {
	cfg, err := LoadConfigWithDefaults(path)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg, envFile); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings no binary can run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" && c.DataDir == "" {
		return errors.New("api_url must not be empty")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative (%s)", c.HTTPTimeout.Std())
	}
	if c.FetchFloor < 0 {
		return fmt.Errorf("fetch_floor must not be negative (%s)", c.FetchFloor.Std())
	}
	return nil
}
