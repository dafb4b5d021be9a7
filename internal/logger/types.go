// Package logger provides structured logging for the tracer.
package logger

// Level represents the logging level.
type Level string

const (
	// DebugLevel logs debug messages.
	DebugLevel Level = "debug"
	// InfoLevel logs info messages.
	InfoLevel Level = "info"
	// WarnLevel logs warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel logs error messages.
	ErrorLevel Level = "error"
)

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level.
	Level Level `mapstructure:"level" yaml:"level"`
	// Development enables development mode.
	Development bool `mapstructure:"development" yaml:"development"`
	// Encoding sets the logger's encoding (console or json).
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
	// OutputPaths is a list of URLs or file paths to write logging output to.
	// Report output owns stdout, so logs default to stderr.
	OutputPaths []string `mapstructure:"output_paths" yaml:"output_paths"`
}
