package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. DOCOUTLINE_WORKERS.
const EnvPrefix = "DOCOUTLINE"

// Keys shared by viper, config files and flag bindings.
const (
	KeyInputDir       = "input_dir"
	KeyOutputDir      = "output_dir"
	KeyOutputFormat   = "output_format"
	KeyStyleMode      = "style_mode"
	KeyWorkers        = "workers"
	KeyMaxQueueSize   = "max_queue_size"
	KeyMaxUploadBytes = "max_upload_bytes"
	KeyJobTTL         = "job_ttl"
	KeyLedgerPath     = "ledger_path"
	KeySkipDuplicates = "skip_duplicates"
	KeyPort           = "port"
	KeyAPIKey         = "api_key"
	KeyWatchSettle    = "watch_settle"
	KeyWatchAttempts  = "watch_attempts"
)

type Config struct {
	// Batch input and output
	InputDir     string
	OutputDir    string
	OutputFormat string

	// Heading recognition: "numeric" or "named"
	StyleMode string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Ledger; empty path disables it
	LedgerPath     string
	SkipDuplicates bool

	// HTTP
	Port   string
	APIKey string

	// Watch mode
	WatchSettle   time.Duration
	WatchAttempts int
}

// New returns a viper instance with defaults, DOCOUTLINE_* environment
// overrides and, when present, a config file. An explicit cfgFile must exist;
// the default ./docoutline.yaml is optional.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("docoutline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyInputDir, "documents_for_extract")
	v.SetDefault(KeyOutputDir, "out_json")
	v.SetDefault(KeyOutputFormat, string(store.FormatJSON))
	v.SetDefault(KeyStyleMode, string(parser.ModeNumeric))
	v.SetDefault(KeyWorkers, 4)
	v.SetDefault(KeyMaxQueueSize, 100)
	v.SetDefault(KeyMaxUploadBytes, int64(52428800)) // 50MB
	v.SetDefault(KeyJobTTL, time.Hour)
	v.SetDefault(KeyLedgerPath, "")
	v.SetDefault(KeySkipDuplicates, true)
	v.SetDefault(KeyPort, "8090")
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyWatchSettle, 500*time.Millisecond)
	v.SetDefault(KeyWatchAttempts, 5)
}

// Load reads the current viper state into a Config, replacing non-positive
// sizes with their defaults.
func Load(v *viper.Viper) Config {
	cfg := Config{
		InputDir:     v.GetString(KeyInputDir),
		OutputDir:    v.GetString(KeyOutputDir),
		OutputFormat: v.GetString(KeyOutputFormat),

		StyleMode: v.GetString(KeyStyleMode),

		WorkerCount:  v.GetInt(KeyWorkers),
		MaxQueueSize: v.GetInt(KeyMaxQueueSize),

		MaxUploadBytes: v.GetInt64(KeyMaxUploadBytes),

		JobTTL: v.GetDuration(KeyJobTTL),

		LedgerPath:     v.GetString(KeyLedgerPath),
		SkipDuplicates: v.GetBool(KeySkipDuplicates),

		Port:   v.GetString(KeyPort),
		APIKey: v.GetString(KeyAPIKey),

		WatchSettle:   v.GetDuration(KeyWatchSettle),
		WatchAttempts: v.GetInt(KeyWatchAttempts),
	}

	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.WatchSettle < 0 {
		cfg.WatchSettle = 0
	}
	if cfg.WatchAttempts <= 0 {
		cfg.WatchAttempts = 1
	}

	return cfg
}

func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("%s is required", KeyInputDir)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%s is required", KeyOutputDir)
	}
	if _, err := store.ParseFormat(c.OutputFormat); err != nil {
		return err
	}
	if _, err := parser.ParseMode(c.StyleMode); err != nil {
		return err
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyWorkers, c.WorkerCount)
	}
	return nil
}

// ValidateServe adds the requirements of the HTTP server.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s_API_KEY is required", EnvPrefix)
	}
	return nil
}

// Format returns the parsed output format. Call Validate first.
func (c Config) Format() store.Format {
	f, _ := store.ParseFormat(c.OutputFormat)
	return f
}

// Mode returns the parsed style mode. Call Validate first.
func (c Config) Mode() parser.Mode {
	m, _ := parser.ParseMode(c.StyleMode)
	return m
}
