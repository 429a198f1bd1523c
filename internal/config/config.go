// Package config handles agent configuration loading and management.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".workhub-agent")

	return &Config{
		Server: ServerConfig{
			Addr: ":8001",
		},
		Model: ModelConfig{
			Enabled:        false,
			BaseURL:        "https://api.groq.com/openai/v1",
			Model:          "llama-3.3-70b-versatile",
			TimeoutSeconds: 15,
		},
		Policy: PolicyConfig{
			AcceptThreshold:      0.4,
			ReviewThreshold:      0.5,
			AutoProcessThreshold: 0.6,
		},
		Paths: PathsConfig{
			DataDir: dataDir,
			DB:      filepath.Join(dataDir, "workhub.db"),
		},
		Notify: NotifyConfig{
			Buffer: 64,
		},
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, returns defaults. The WORKHUB_API_KEY
// environment variable overrides the configured model key.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(expandPaths(cfg)), nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return applyEnv(expandPaths(cfg)), nil
}

// Save saves the configuration to the given path.
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	return encoder.Encode(c)
}

// expandPaths expands ~ in paths.
func expandPaths(cfg *Config) *Config {
	homeDir, _ := os.UserHomeDir()

	if len(cfg.Paths.DataDir) > 0 && cfg.Paths.DataDir[0] == '~' {
		cfg.Paths.DataDir = filepath.Join(homeDir, cfg.Paths.DataDir[1:])
	}
	if len(cfg.Paths.DB) > 0 && cfg.Paths.DB[0] == '~' {
		cfg.Paths.DB = filepath.Join(homeDir, cfg.Paths.DB[1:])
	}

	return cfg
}

// applyEnv applies environment overrides for credentials.
func applyEnv(cfg *Config) *Config {
	if key := os.Getenv("WORKHUB_API_KEY"); key != "" {
		cfg.Model.APIKey = key
		cfg.Model.Enabled = true
	}
	return cfg
}

// ModelConfigured returns true if the model collaborator should be used.
func (c *Config) ModelConfigured() bool {
	return c.Model.Enabled && c.Model.APIKey != ""
}
