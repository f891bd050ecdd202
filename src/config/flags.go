package config

import (
	"flag"
	"time"
)

// Flags holds the command-line layer shared by every binary. Only flags given on the
// command line override lower layers.
type Flags struct {
	ConfigPath string
	EnvFile    string

	fs      *flag.FlagSet
	apiURL  string
	token   string
	timeout time.Duration
	floor   time.Duration
	dlDir   string
	prefix  string
	listen  string
	level   string
	dataDir string
}

// RegisterFlags defines the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "Optional JSON config file; missing file means built-in defaults")
	fs.StringVar(&f.EnvFile, "env", ".env", "Optional env file with CHEMVIZ_* variables; the process environment wins over it")
	fs.StringVar(&f.apiURL, "api", "", "Dataset service base URL (scheme and host), e.g. http://127.0.0.1:8000")
	fs.StringVar(&f.token, "token", "", "API token sent as 'Authorization: Token <token>'")
	fs.DurationVar(&f.timeout, "timeout", 0, "HTTP timeout for one upstream request")
	fs.DurationVar(&f.floor, "floor", 0, "Minimum time the loading state stays visible (0 keeps the configured value)")
	fs.StringVar(&f.dlDir, "download-dir", "", "Directory reports are downloaded into")
	fs.StringVar(&f.prefix, "report-prefix", "", "Prefix for templated report names (<prefix>_<id>.pdf)")
	fs.StringVar(&f.listen, "listen", "", "Listen address for the web dashboard")
	fs.StringVar(&f.level, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.dataDir, "data", "", "Serve datasets from CSV files instead of the API: a directory of <id>.csv files or a single CSV")
	return f
}

// Load runs every layer: defaults, config file, env file, environment, then flags.
func (f *Flags) Load() (Config, error) {
	cfg, err := Load(f.ConfigPath, f.EnvFile)
	if err != nil {
		return cfg, err
	}
	f.Apply(&cfg)
	return cfg, cfg.Validate()
}

// Apply overlays the flags that were set explicitly.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "api":
			cfg.APIURL = f.apiURL
		case "token":
			cfg.Token = f.token
		case "timeout":
			cfg.HTTPTimeout = Duration(f.timeout)
		case "floor":
			cfg.FetchFloor = Duration(f.floor)
		case "download-dir":
			cfg.DownloadDir = f.dlDir
		case "report-prefix":
			cfg.ReportPrefix = f.prefix
		case "listen":
			cfg.Listen = f.listen
		case "log-level":
			cfg.LogLevel = f.level
		case "data":
			cfg.DataDir = f.dataDir
		}
	})
}
