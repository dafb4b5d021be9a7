package logger

// Default configuration values.
const (
	// DefaultLevel is the default logging level.
	DefaultLevel = WarnLevel
	// DefaultEncoding is the default log encoding format.
	DefaultEncoding = "console"
)

// DefaultOutputPaths is the default list of paths to write log output to.
var DefaultOutputPaths = []string{"stderr"}
