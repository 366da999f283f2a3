package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/voicenotes/component"
	"github.com/kbukum/voicenotes/logger"
)

// Component runs a Hub under the component registry.
type Component struct {
	hub  *Hub
	wg   sync.WaitGroup
	mu   sync.Mutex
	path string
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component with a fresh Hub served at path.
func NewComponent(path string, log *logger.Logger) *Component {
	return &Component{hub: NewHub(log), path: path}
}

// Hub returns the underlying Hub.
func (c *Component) Hub() *Hub { return c.hub }

// Name returns the component name.
func (c *Component) Name() string { return "sse" }

// Start launches the Hub's event loop.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.hub.Run()
	}()
	return nil
}

// Stop closes all clients and waits for the loop to return.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hub.Stop()
	c.wg.Wait()
	return nil
}

// Health reports the number of connected clients.
func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.hub.ClientCount()),
	}
}

// Describe returns a summary for the startup display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Event Stream",
		Type:    "stream",
		Details: "path " + c.path,
	}
}
