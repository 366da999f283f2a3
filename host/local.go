package host

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/logger"
)

// Listener observes indicator changes.
type Listener interface {
	IndicatorChanged(state IndicatorState)
}

// CommandInfo describes a registered command.
type CommandInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Local is an in-process Host. Notices are logged and fanned out to the
// added notifiers; indicator changes are fanned out to listeners.
type Local struct {
	mu        sync.RWMutex
	commands  map[string]Command
	order     []string
	indicator *indicator
	notifiers []Notifier
	listeners []Listener
	log       *logger.Logger
}

// NewLocal creates an empty host.
func NewLocal(log *logger.Logger) *Local {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	l := &Local{
		commands: make(map[string]Command),
		log:      log.WithComponent("host"),
	}
	l.indicator = &indicator{onChange: l.publish}
	return l
}

// ensure Local satisfies Host.
var _ Host = (*Local)(nil)

// AddNotifier adds a notice sink.
func (l *Local) AddNotifier(n Notifier) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notifiers = append(l.notifiers, n)
}

// AddListener adds an indicator observer.
func (l *Local) AddListener(li Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, li)
}

// RegisterCommand adds cmd. Ids are unique.
func (l *Local) RegisterCommand(cmd Command) error {
	if cmd.ID == "" || cmd.Handler == nil {
		return errors.InvalidInput("command", "id and handler are required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.commands[cmd.ID]; exists {
		return errors.AlreadyExists("command " + cmd.ID)
	}
	l.commands[cmd.ID] = cmd
	l.order = append(l.order, cmd.ID)
	l.log.Debug("command registered", logger.Fields(logger.FieldCommand, cmd.ID))
	return nil
}

// UnregisterCommand removes the command with id. Unknown ids are ignored.
func (l *Local) UnregisterCommand(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.commands[id]; !ok {
		return
	}
	delete(l.commands, id)
	l.order = slices.DeleteFunc(l.order, func(o string) bool { return o == id })
}

// UnregisterAll removes every command.
func (l *Local) UnregisterAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.commands = make(map[string]Command)
	l.order = nil
}

// Commands lists registered commands in registration order.
func (l *Local) Commands() []CommandInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]CommandInfo, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, CommandInfo{ID: id, Name: l.commands[id].Name})
	}
	return out
}

// Execute runs the command registered under id.
func (l *Local) Execute(ctx context.Context, id string) error {
	l.mu.RLock()
	cmd, ok := l.commands[id]
	l.mu.RUnlock()
	if !ok {
		return errors.NotFound("command", id)
	}

	start := time.Now()
	err := cmd.Handler(ctx)
	fields := logger.DurationFields(id, time.Since(start))
	if err != nil {
		l.log.WithError(err).Warn("command failed", fields)
	} else {
		l.log.Debug("command executed", fields)
	}
	return err
}

// RegisterStatusIndicator returns the host's single status indicator.
func (l *Local) RegisterStatusIndicator() StatusIndicator {
	return l.indicator
}

// Indicator returns the current indicator state.
func (l *Local) Indicator() IndicatorState {
	return l.indicator.State()
}

// Notifier returns the fan-out notifier.
func (l *Local) Notifier() Notifier {
	return NotifierFunc(l.notify)
}

func (l *Local) notify(ctx context.Context, n Notice) {
	if n.Time.IsZero() {
		n.Time = time.Now()
	}
	l.log.Info("notice", logger.Fields("level", string(n.Level), "message", n.Message))

	l.mu.RLock()
	notifiers := append([]Notifier(nil), l.notifiers...)
	l.mu.RUnlock()
	for _, sink := range notifiers {
		sink.Notify(ctx, n)
	}
}

func (l *Local) publish(state IndicatorState) {
	l.mu.RLock()
	listeners := append([]Listener(nil), l.listeners...)
	l.mu.RUnlock()
	for _, li := range listeners {
		li.IndicatorChanged(state)
	}
}

// indicator is the Local status bar item.
type indicator struct {
	mu       sync.Mutex
	state    IndicatorState
	onChange func(IndicatorState)
}

func (i *indicator) SetText(text string) {
	i.update(func(s *IndicatorState) { s.Text = text })
}

func (i *indicator) SetRecording(recording bool) {
	i.update(func(s *IndicatorState) { s.Recording = recording })
}

func (i *indicator) State() IndicatorState {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

func (i *indicator) update(fn func(*IndicatorState)) {
	i.mu.Lock()
	fn(&i.state)
	i.state.UpdatedAt = time.Now()
	state := i.state
	i.mu.Unlock()

	if i.onChange != nil {
		i.onChange(state)
	}
}
