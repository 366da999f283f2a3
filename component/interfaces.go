package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component represents a lifecycle-managed part of the daemon.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information for the startup display.
type Description struct {
	// Name is the human-readable display name (e.g., "Control Server", "Vault").
	// If empty, the component's Name() is used.
	Name string
	// Type categorizes the component: "server", "storage", "plugin", "stream".
	Type string
	// Details is a one-liner such as "127.0.0.1:8766" or "provider=local path=~/Notes".
	Details string
	// Port is the primary port, 0 if not applicable.
	Port int
}

// Describable is optionally implemented by Components to appear in the
// startup summary.
type Describable interface {
	Describe() Description
}

// Route holds a single HTTP route for the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is optionally implemented by server components to report
// their HTTP routes for the startup summary.
type RouteProvider interface {
	Routes() []Route
}
