package bridge3d

import (
	"os"
	"path/filepath"

	"github.com/leohan123123/bridge-3D-AI1/llm"
)

// Config holds all configuration for the bridge design engine.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to ~/.bridge3d/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	// Defaults to "bridge3d".
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath
	// is not explicitly set. Options: "home" (default) uses ~/.bridge3d/,
	// "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// Providers is the ordered failover list for requirement analysis.
	// The first provider is tried first; later entries are fallbacks.
	Providers []llm.Config `json:"providers" yaml:"providers"`

	// Analysis failover policy.
	AttemptTimeoutSec int `json:"attempt_timeout_sec" yaml:"attempt_timeout_sec"` // per provider attempt
	AttemptRetries    int `json:"attempt_retries" yaml:"attempt_retries"`         // transient retries per provider
	CacheTTLSec       int `json:"cache_ttl_sec" yaml:"cache_ttl_sec"`             // analysis cache entry lifetime
	CacheSize         int `json:"cache_size" yaml:"cache_size"`                   // analysis cache capacity
}

// DefaultConfig returns a Config with the stock provider order:
// DeepSeek first (needs an API key), then a local Ollama instance.
func DefaultConfig() Config {
	return Config{
		DBName:     "bridge3d",
		StorageDir: "home",
		Providers: []llm.Config{
			{Provider: "deepseek", Model: "deepseek-chat", BaseURL: "https://api.deepseek.com"},
			{Provider: "ollama", Model: "llama3.1:8b", BaseURL: "http://localhost:11434"},
		},
		AttemptTimeoutSec: 30,
		AttemptRetries:    2,
		CacheTTLSec:       600,
		CacheSize:         512,
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "bridge3d"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db" // fallback to cwd
		}
		dir := filepath.Join(home, ".bridge3d")
		return filepath.Join(dir, name+".db")
	}
}
