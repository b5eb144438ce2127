package logging

import "time"

type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type LogEntry struct {
	Timestamp time.Time         `yaml:"timestamp"`
	Level     Level             `yaml:"level"`
	Message   string            `yaml:"message"`
	Context   map[string]string `yaml:"context,omitempty"`
}
