package vault

import (
	"context"
	"fmt"

	"github.com/kbukum/voicenotes/component"
	"github.com/kbukum/voicenotes/logger"
)

// Component reports an open Store to the component registry. Start probes
// the target document so a misconfigured vault shows up at boot.
type Component struct {
	store  Store
	cfg    Config
	target func() string
	log    *logger.Logger
}

// NewComponent wraps store. target returns the document path to probe.
func NewComponent(store Store, cfg Config, target func() string, log *logger.Logger) *Component {
	return &Component{
		store:  store,
		cfg:    cfg,
		target: target,
		log:    log.WithComponent("vault"),
	}
}

// ensure Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "vault" }

// Start probes the target document.
func (c *Component) Start(ctx context.Context) error {
	path := c.target()
	entry, err := c.store.Lookup(ctx, path)
	if err != nil {
		return fmt.Errorf("vault start: %w", err)
	}
	c.log.Info("vault ready", logger.Fields(logger.FieldDocument, path, "kind", entry.Kind.String()))
	return nil
}

// Stop is a no-op; stores hold no resources that need closing.
func (c *Component) Stop(_ context.Context) error {
	return nil
}

// Health reports whether the target document can be looked up and, if it
// exists, is a plain document.
func (c *Component) Health(ctx context.Context) component.Health {
	path := c.target()
	entry, err := c.store.Lookup(ctx, path)
	if err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("lookup failed: %v", err),
		}
	}
	if entry.Kind == KindOther {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: fmt.Sprintf("%s exists but is not a file", path),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the startup display.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("provider=%s", c.cfg.Provider)
	switch c.cfg.Provider {
	case ProviderLocal:
		details += fmt.Sprintf(" path=%s", c.cfg.BasePath)
	case ProviderS3:
		details += fmt.Sprintf(" bucket=%s", c.cfg.Bucket)
		if c.cfg.Prefix != "" {
			details += fmt.Sprintf(" prefix=%s", c.cfg.Prefix)
		}
	}
	return component.Description{
		Name:    "Vault",
		Type:    "storage",
		Details: details,
	}
}
