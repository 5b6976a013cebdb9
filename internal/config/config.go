package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Snapshot SnapshotConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type SnapshotConfig struct {
	// Path of the JSON snapshot file; empty means <data_dir>/noteboard-snapshot.json.
	Path string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server:  ServerConfig{Port: 8080},
		Storage: StorageConfig{DataDir: defaultDataDir()},
		Log:     LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults overridden by NOTEBOARD_*
// environment variables.
func Load() Config {
	cfg := defaults()
	applyEnvOverrides(&cfg)
	if cfg.Snapshot.Path == "" {
		cfg.Snapshot.Path = filepath.Join(cfg.Storage.DataDir, "noteboard-snapshot.json")
	}
	return cfg
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "noteboard-data"
		}
	}
	return filepath.Join(dir, "noteboard")
}
