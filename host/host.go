package host

import (
	"context"
	"time"
)

// Handler runs a command.
type Handler func(ctx context.Context) error

// Command is a user-invocable action.
type Command struct {
	ID      string
	Name    string
	Handler Handler
}

// Level classifies a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a transient message shown to the user.
type Notice struct {
	Message string    `json:"message"`
	Level   Level     `json:"level"`
	Time    time.Time `json:"time"`
}

// Notifier shows notices. Delivery is best effort; implementations log
// their own failures.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// IndicatorState is a snapshot of the status indicator.
type IndicatorState struct {
	Text      string    `json:"text"`
	Recording bool      `json:"recording"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusIndicator is the status bar item owned by the plugin.
type StatusIndicator interface {
	SetText(text string)
	// SetRecording toggles the visual recording affordance.
	SetRecording(recording bool)
	State() IndicatorState
}

// Host is the capability set the plugin is given.
type Host interface {
	RegisterCommand(cmd Command) error
	RegisterStatusIndicator() StatusIndicator
	Notifier() Notifier
}

// Info sends an informational notice.
func Info(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Notice{Message: msg, Level: LevelInfo, Time: time.Now()})
}

// Warn sends a warning notice.
func Warn(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Notice{Message: msg, Level: LevelWarning, Time: time.Now()})
}

// Error sends an error notice.
func Error(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Notice{Message: msg, Level: LevelError, Time: time.Now()})
}
