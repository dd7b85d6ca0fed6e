package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultLogLevel   = "info"
	DefaultOwner      = ""
	configFileName    = ".docvault.toml"
	configDirEnvKey   = "DOCVAULT_CONFIG_DIR"
	dbPathEnvKey      = "DOCVAULT_DB_PATH"
	blobRootEnvKey    = "DOCVAULT_BLOB_ROOT"
	ownerEnvKey       = "DOCVAULT_OWNER"
	defaultDataSubdir = ".docvault"
)

// Config defines runtime configuration for docvault.
type Config struct {
	DBPath   string `toml:"db_path"`
	BlobRoot string `toml:"blob_root"`
	Owner    string `toml:"owner"`
	LogLevel string `toml:"log_level"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		DBPath:   "",
		BlobRoot: "",
		Owner:    DefaultOwner,
		LogLevel: "",
	}
}

// Load reads the config file, if any, and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := configPath()
	if err != nil {
		return nil, err
	}
	if err := loadFileIfExists(path, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// ResolvePaths fills in default storage locations for unset paths: the
// database under ~/.docvault, and the blob tree next to the database.
func (c *Config) ResolvePaths() error {
	if strings.TrimSpace(c.DBPath) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		c.DBPath = filepath.Join(home, defaultDataSubdir, "vault.db")
	}
	if strings.TrimSpace(c.BlobRoot) == "" {
		c.BlobRoot = filepath.Join(filepath.Dir(c.DBPath), "blobs")
	}
	return nil
}

func configPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory: run on defaults and env alone.
		return "", nil
	}
	return filepath.Join(home, configFileName), nil
}

func loadFileIfExists(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(dbPathEnvKey)); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(blobRootEnvKey)); v != "" {
		cfg.BlobRoot = v
	}
	if v := strings.TrimSpace(os.Getenv(ownerEnvKey)); v != "" {
		cfg.Owner = v
	}
}
