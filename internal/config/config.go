package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr string `json:"listen_addr"`
	Debug      bool   `json:"debug"`

	// Remote ledger API
	LedgerURL   string `json:"ledger_url"`
	LedgerToken string `json:"-"`

	// Directories and file paths
	DataDirectory string `json:"data_directory"`
	SnapshotDir   string `json:"snapshot_dir"`
	AuditDBPath   string `json:"audit_db_path"`

	// Client tuning
	CacheTTL          time.Duration `json:"cache_ttl"`
	RequestsPerMinute int           `json:"requests_per_minute"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	dataDir := filepath.Join(wd, "data")
	return &Config{
		ListenAddr:        ":8080",
		Debug:             false,
		LedgerURL:         "https://api.ledger.example/v1",
		DataDirectory:     dataDir,
		SnapshotDir:       filepath.Join(dataDir, "snapshots"),
		AuditDBPath:       filepath.Join(dataDir, "audit.db"),
		CacheTTL:          5 * time.Minute,
		RequestsPerMinute: 60,
	}
}

// Load loads configuration from environment variables over defaults
func Load() *Config {
	cfg := DefaultConfig()

	if addr := os.Getenv("LEDGERLENS_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if debug := os.Getenv("LEDGERLENS_DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}
	if url := os.Getenv("LEDGERLENS_LEDGER_URL"); url != "" {
		cfg.LedgerURL = url
	}
	if token := os.Getenv("LEDGERLENS_LEDGER_TOKEN"); token != "" {
		cfg.LedgerToken = token
	}
	if dataDir := os.Getenv("LEDGERLENS_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
		cfg.SnapshotDir = filepath.Join(dataDir, "snapshots")
		cfg.AuditDBPath = filepath.Join(dataDir, "audit.db")
	}
	if ttl := os.Getenv("LEDGERLENS_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil && d > 0 {
			cfg.CacheTTL = d
		} else {
			log.Printf("Warning: ignoring invalid LEDGERLENS_CACHE_TTL %q", ttl)
		}
	}
	if rpm := os.Getenv("LEDGERLENS_REQUESTS_PER_MINUTE"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil && n > 0 {
			cfg.RequestsPerMinute = n
		} else {
			log.Printf("Warning: ignoring invalid LEDGERLENS_REQUESTS_PER_MINUTE %q", rpm)
		}
	}

	cfg.ensureDirectories()

	return cfg
}

// ensureDirectories creates required directories if they don't exist
func (c *Config) ensureDirectories() {
	dirs := []string{
		c.DataDirectory,
		c.SnapshotDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Warning: could not create directory %s: %v", dir, err)
		}
	}
}
