// Package config provides configuration types for the WorkHub agent.
package config

// Config represents the main agent configuration. It is built once at
// startup and never mutated afterward.
type Config struct {
	Server ServerConfig `toml:"server"`
	Model  ModelConfig  `toml:"model"`
	Policy PolicyConfig `toml:"policy"`
	Paths  PathsConfig  `toml:"paths"`
	Notify NotifyConfig `toml:"notify"`
}

// ServerConfig contains HTTP intake settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// ModelConfig configures the external language-model endpoint.
type ModelConfig struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// PolicyConfig contains the confidence thresholds. The defaults match the
// tuning the pipeline shipped with; they are policy, not law.
type PolicyConfig struct {
	// AcceptThreshold is the minimum model confidence accepted outright.
	AcceptThreshold float64 `toml:"accept_threshold"`

	// ReviewThreshold is the confidence below which a message is flagged
	// for manager review.
	ReviewThreshold float64 `toml:"review_threshold"`

	// AutoProcessThreshold is the confidence above which the routed
	// action is executed without manager confirmation.
	AutoProcessThreshold float64 `toml:"auto_process_threshold"`
}

// PathsConfig contains file path settings.
type PathsConfig struct {
	DataDir string `toml:"data_dir"`
	DB      string `toml:"db"`
}

// NotifyConfig configures manager notifications.
type NotifyConfig struct {
	// Buffer is the size of the in-process alert queue.
	Buffer int `toml:"buffer"`
}
