package notify

import (
	"context"
	"strings"

	"github.com/gen2brain/beeep"

	"github.com/kbukum/voicenotes/host"
	"github.com/kbukum/voicenotes/logger"
)

// DefaultTitle is the notification title.
const DefaultTitle = "Voice Notes"

// Config controls desktop notifications.
type Config struct {
	Desktop bool   `mapstructure:"desktop"`
	Title   string `mapstructure:"title"`
	// MinLevel drops notices below it: info, warning or error.
	MinLevel string `mapstructure:"min_level"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.MinLevel == "" {
		c.MinLevel = string(host.LevelInfo)
	}
}

type sendFunc func(title, message string) error

// Desktop shows notices through the OS notification center. Errors are
// sent as alerts.
type Desktop struct {
	title    string
	minLevel int
	notify   sendFunc
	alert    sendFunc
	log      *logger.Logger
}

// NewDesktop creates a desktop notifier.
func NewDesktop(cfg Config, log *logger.Logger) *Desktop {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	beeep.AppName = cfg.Title
	return &Desktop{
		title:    cfg.Title,
		minLevel: rank(host.Level(strings.ToLower(cfg.MinLevel))),
		notify:   func(title, message string) error { return beeep.Notify(title, message, "") },
		alert:    func(title, message string) error { return beeep.Alert(title, message, "") },
		log:      log.WithComponent("notify"),
	}
}

// ensure Desktop satisfies host.Notifier.
var _ host.Notifier = (*Desktop)(nil)

// Notify shows n unless it is below the configured level.
func (d *Desktop) Notify(_ context.Context, n host.Notice) {
	if rank(n.Level) < d.minLevel {
		return
	}

	send := d.notify
	if n.Level == host.LevelError {
		send = d.alert
	}
	if err := send(d.title, n.Message); err != nil {
		d.log.WithError(err).Debug("desktop notification failed")
	}
}

func rank(l host.Level) int {
	switch l {
	case host.LevelError:
		return 2
	case host.LevelWarning:
		return 1
	default:
		return 0
	}
}
