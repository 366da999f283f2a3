package server

import (
	"context"
	"sort"
	"strings"

	"github.com/kbukum/voicenotes/component"
)

const componentName = "server"

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Component wraps Server for the component registry.
type Component struct {
	server *Server
}

// NewComponent returns a component backed by s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the component name.
func (sc *Component) Name() string { return componentName }

// Start starts the server.
func (sc *Component) Start(ctx context.Context) error {
	return sc.server.Start(ctx)
}

// Stop shuts the server down.
func (sc *Component) Stop(ctx context.Context) error {
	return sc.server.Stop(ctx)
}

// Health reports whether the listener is bound.
func (sc *Component) Health(_ context.Context) component.Health {
	sc.server.mu.Lock()
	bound := sc.server.listener != nil
	sc.server.mu.Unlock()
	if !bound {
		return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: "not listening"}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Describe returns a summary for the startup display.
func (sc *Component) Describe() component.Description {
	cfg := sc.server.config
	details := sc.server.Addr()
	if cfg.Token != "" {
		details += " (token required)"
	}
	return component.Description{
		Name:    "Control Server",
		Type:    "server",
		Details: details,
		Port:    cfg.Port,
	}
}

// systemPaths are the default endpoints, listed after the API routes.
var systemPaths = map[string]bool{
	"/health":  true,
	"/info":    true,
	"/metrics": true,
}

// Routes returns the registered routes, API routes first.
func (sc *Component) Routes() []component.Route {
	ginRoutes := sc.server.engine.Routes()
	sort.Slice(ginRoutes, func(i, j int) bool {
		iSys, jSys := systemPaths[ginRoutes[i].Path], systemPaths[ginRoutes[j].Path]
		if iSys != jSys {
			return !iSys
		}
		if ginRoutes[i].Path != ginRoutes[j].Path {
			return ginRoutes[i].Path < ginRoutes[j].Path
		}
		return methodOrder(ginRoutes[i].Method) < methodOrder(ginRoutes[j].Method)
	})

	routes := make([]component.Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		routes = append(routes, component.Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: formatHandlerName(r.Handler),
		})
	}
	return routes
}

// formatHandlerName shortens Gin's handler path
// "github.com/x/y/httphost.(*API).status-fm" to "API.status".
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")

	// Closures: "endpoint.Health.func1" -> "health"
	if strings.Contains(name, ".func") {
		parts := strings.Split(name, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}

	// Drop a lowercase package prefix.
	if pkg, rest, ok := strings.Cut(name, "."); ok && rest != "" && strings.ToLower(pkg) == pkg {
		name = rest
	}
	return name
}

func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
