package config

// APIConfig describes the remote stack-management service.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// ServerConfig holds settings for the browser console server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// OutputConfig controls how reports are rendered on the terminal.
type OutputConfig struct {
	Format string `yaml:"format"`
	Color  string `yaml:"color"`
}

// CreateConfig holds defaults for the create action.
type CreateConfig struct {
	TargetPort int `yaml:"target_port"`
	// PodSpecFile, when set, replaces the built-in pod document. Relative
	// paths resolve against the project directory.
	PodSpecFile string `yaml:"pod_spec_file,omitempty"`
}

// SessionConfig locates the file that carries the active stack between
// CLI invocations.
type SessionConfig struct {
	File string `yaml:"file"`
}

// LogConfig sets the logger level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config represents the .stackconsole/config.yaml file.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Output  OutputConfig  `yaml:"output"`
	Create  CreateConfig  `yaml:"create"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Environment variables that override file values.
const (
	EnvBaseURL  = "STACKCONSOLE_BASE_URL"
	EnvPort     = "STACKCONSOLE_PORT"
	EnvLogLevel = "STACKCONSOLE_LOG_LEVEL"
)
