package plugin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/voicenotes/backend"
	"github.com/kbukum/voicenotes/component"
	"github.com/kbukum/voicenotes/config"
	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/host"
	"github.com/kbukum/voicenotes/logger"
	"github.com/kbukum/voicenotes/observability"
	"github.com/kbukum/voicenotes/recording"
	"github.com/kbukum/voicenotes/vault"
)

// Command ids registered with the host.
const (
	CommandStart      = "start-voice-recording"
	CommandStop       = "stop-voice-recording"
	CommandToggle     = "toggle-voice-recording"
	CommandInsertLast = "insert-last-transcription"
)

// NoticeBackendDown is shown when the backend cannot be reached at startup.
const NoticeBackendDown = "⚠️ Voice Notes: Backend service not running. Please start backend service."

// DefaultCheckTimeout bounds the startup reachability check and the listen
// mode request.
const DefaultCheckTimeout = 5 * time.Second

// SettingsStore loads and persists settings.
type SettingsStore interface {
	Load() (config.Settings, error)
	Save(config.Settings) error
}

// Options configures a Plugin.
type Options struct {
	Host     host.Host
	Settings SettingsStore
	Store    vault.Store
	// BackendTimeout bounds each backend request. Zero means no timeout.
	BackendTimeout time.Duration
	CheckTimeout   time.Duration
	Clock          recording.Clock
	Metrics        *observability.Metrics
	Logger         *logger.Logger
}

// Plugin owns the settings, the backend client and the recording controller.
type Plugin struct {
	opts Options
	log  *logger.Logger

	// saveMu serializes SaveSettings.
	saveMu sync.Mutex

	mu       sync.RWMutex
	settings config.Settings
	client   *backend.Client
	ctrl     *recording.Controller
	started  bool
}

// New creates a Plugin. Nothing is loaded until Start.
func New(opts Options) *Plugin {
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = DefaultCheckTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Plugin{opts: opts, log: log.WithComponent("plugin")}
}

var (
	_ component.Component   = (*Plugin)(nil)
	_ component.Describable = (*Plugin)(nil)
)

// Name returns the component name.
func (p *Plugin) Name() string { return "plugin" }

// Start loads settings, registers the commands and checks the backend.
func (p *Plugin) Start(ctx context.Context) error {
	settings, err := p.opts.Settings.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	client, err := p.newClient(settings)
	if err != nil {
		return err
	}

	indicator := p.opts.Host.RegisterStatusIndicator()
	ctrl, err := recording.New(recording.Options{
		Backend:   client,
		Store:     p.opts.Store,
		Indicator: indicator,
		Notifier:  p.opts.Host.Notifier(),
		Document:  p.targetDocument,
		Clock:     p.opts.Clock,
		Metrics:   p.opts.Metrics,
		Logger:    p.log,
	})
	if err != nil {
		return err
	}

	commands := []host.Command{
		{ID: CommandStart, Name: "Start Voice Recording", Handler: ctrl.Start},
		{ID: CommandStop, Name: "Stop Voice Recording", Handler: ctrl.Stop},
		{ID: CommandToggle, Name: "Toggle Voice Recording", Handler: ctrl.Toggle},
		{ID: CommandInsertLast, Name: "Insert Last Transcription", Handler: p.InsertLastTranscription},
	}
	for i, cmd := range commands {
		if err := p.opts.Host.RegisterCommand(cmd); err != nil {
			p.unregister(commands[:i])
			return fmt.Errorf("register command %s: %w", cmd.ID, err)
		}
	}

	p.mu.Lock()
	p.settings = settings
	p.client = client
	p.ctrl = ctrl
	p.mu.Unlock()

	indicator.SetText(recording.TextReady)

	p.checkBackend(ctx, client)
	if settings.AutoStartListening {
		p.setListenMode(ctx, client, true)
	}

	p.mu.Lock()
	p.started = true
	p.mu.Unlock()

	p.log.Info("plugin loaded", logger.Fields(
		logger.FieldBackendURL, client.BaseURL(),
		logger.FieldDocument, settings.TargetNoteName,
	))
	return nil
}

// Stop cancels the pending status revert and releases the commands.
func (p *Plugin) Stop(_ context.Context) error {
	p.mu.Lock()
	ctrl := p.ctrl
	p.started = false
	p.mu.Unlock()

	if ctrl != nil {
		ctrl.Close()
	}
	if u, ok := p.opts.Host.(interface{ UnregisterAll() }); ok {
		u.UnregisterAll()
	}
	p.log.Info("plugin unloaded")
	return nil
}

// Health reports the backend reachability.
func (p *Plugin) Health(ctx context.Context) component.Health {
	p.mu.RLock()
	started, client := p.started, p.client
	p.mu.RUnlock()

	if !started {
		return component.Health{Name: p.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	if !client.IsReachable(ctx) {
		return component.Health{Name: p.Name(), Status: component.StatusDegraded, Message: "backend unreachable at " + client.BaseURL()}
	}
	return component.Health{Name: p.Name(), Status: component.StatusHealthy}
}

// Describe returns a summary for the startup display.
func (p *Plugin) Describe() component.Description {
	s := p.Settings()
	return component.Description{
		Name:    "Voice Notes",
		Type:    "plugin",
		Details: fmt.Sprintf("backend=%s note=%q", s.BackendURL, s.TargetNoteName),
	}
}

// Settings returns the current settings.
func (p *Plugin) Settings() config.Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// Controller returns the recording controller, nil before Start.
func (p *Plugin) Controller() *recording.Controller {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ctrl
}

// RecordingState returns the controller state, Idle before Start.
func (p *Plugin) RecordingState() recording.State {
	if ctrl := p.Controller(); ctrl != nil {
		return ctrl.State()
	}
	return recording.Idle
}

// Backend returns the current backend client, nil before Start.
func (p *Plugin) Backend() *backend.Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// SaveSettings validates and persists s, rebuilds the backend client for the
// new URL and sends the model settings to it. A failed config update is
// logged, not returned.
func (p *Plugin) SaveSettings(ctx context.Context, s config.Settings) error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	if err := s.Validate(); err != nil {
		return err
	}
	client, err := p.newClient(s)
	if err != nil {
		return err
	}
	if err := p.opts.Settings.Save(s); err != nil {
		return errors.Internal(err).WithDetail("operation", "save settings")
	}

	p.mu.Lock()
	prev := p.settings
	p.settings = s
	p.client = client
	ctrl := p.ctrl
	p.mu.Unlock()

	if ctrl != nil {
		ctrl.SetBackend(client)
	}

	if err := client.UpdateConfig(ctx, s.OllamaURL, s.ModelName); err != nil {
		p.log.WithError(err).Warn("backend config update failed")
	}
	if s.AutoStartListening != prev.AutoStartListening {
		p.setListenMode(ctx, client, s.AutoStartListening)
	}

	p.log.Info("settings saved", logger.Fields(
		logger.FieldBackendURL, client.BaseURL(),
		logger.FieldDocument, s.TargetNoteName,
		"model", s.ModelName,
	))
	return nil
}

// CheckStatus tests the backend connection.
func (p *Plugin) CheckStatus(ctx context.Context) (ConnectionReport, error) {
	client := p.Backend()
	if client == nil {
		return ConnectionReport{}, errors.ServiceUnavailable("voice notes plugin")
	}
	return CheckConnection(ctx, client), nil
}

// LastTranscription fetches the most recent transcription from the backend.
func (p *Plugin) LastTranscription(ctx context.Context) (*backend.TranscriptionResult, error) {
	client := p.Backend()
	if client == nil {
		return nil, errors.ServiceUnavailable("voice notes plugin")
	}
	return client.GetLastTranscription(ctx)
}

// InsertLastTranscription appends the backend's last transcription to the
// target document.
func (p *Plugin) InsertLastTranscription(ctx context.Context) error {
	ctrl := p.Controller()
	if ctrl == nil {
		return errors.ServiceUnavailable("voice notes plugin")
	}
	result, err := p.LastTranscription(ctx)
	if err != nil {
		host.Error(ctx, p.opts.Host.Notifier(), errors.Message(err))
		return err
	}
	if result.Transcription == "" {
		err := errors.NoTranscriptionAvailable("No transcription available")
		host.Warn(ctx, p.opts.Host.Notifier(), err.Message)
		return err
	}
	return ctrl.Insert(ctx, result.Transcription)
}

// unregister removes commands from hosts that support it.
func (p *Plugin) unregister(commands []host.Command) {
	u, ok := p.opts.Host.(interface{ UnregisterCommand(id string) })
	if !ok {
		return
	}
	for _, cmd := range commands {
		u.UnregisterCommand(cmd.ID)
	}
}

func (p *Plugin) targetDocument() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.TargetNoteName
}

func (p *Plugin) newClient(s config.Settings) (*backend.Client, error) {
	return backend.New(
		backend.Config{URL: s.BackendURL, Timeout: p.opts.BackendTimeout},
		backend.WithMetrics(p.opts.Metrics),
		backend.WithLogger(p.log),
	)
}

func (p *Plugin) checkBackend(ctx context.Context, client *backend.Client) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.CheckTimeout)
	defer cancel()
	if !client.IsReachable(ctx) {
		p.log.Warn("backend not reachable", logger.Fields(logger.FieldBackendURL, client.BaseURL()))
		host.Warn(ctx, p.opts.Host.Notifier(), NoticeBackendDown)
	}
}

func (p *Plugin) setListenMode(ctx context.Context, client *backend.Client, enabled bool) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.CheckTimeout)
	defer cancel()

	var err error
	if enabled {
		err = client.EnableListenMode(ctx)
	} else {
		err = client.DisableListenMode(ctx)
	}
	if err != nil {
		p.log.WithError(err).Warn("listen mode request failed", logger.Fields("enabled", enabled))
		return
	}
	p.log.Info("listen mode updated", logger.Fields("enabled", enabled))
}
