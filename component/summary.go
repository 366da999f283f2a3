package component

import (
	"context"
	"fmt"
	"io"
	"time"
)

// WriteSummary prints the startup summary: every registered component
// with its live health and description, then the routes of any
// RouteProvider.
func WriteSummary(ctx context.Context, w io.Writer, r *Registry, service, version string, took time.Duration) {
	fmt.Fprintf(w, "\n🚀 %s %s started in %.2fs\n\n", service, version, took.Seconds())

	components := r.All()
	if len(components) > 0 {
		fmt.Fprintf(w, "📦 Components\n")
		healthy := 0
		for i, c := range components {
			h := c.Health(ctx)
			if h.Status == StatusHealthy {
				healthy++
			}

			name, details := c.Name(), ""
			if d, ok := c.(Describable); ok {
				desc := d.Describe()
				if desc.Name != "" {
					name = desc.Name
				}
				details = desc.Details
				if desc.Port > 0 {
					details = fmt.Sprintf("%s (:%d)", details, desc.Port)
				}
			}
			if details == "" && h.Message != "" {
				details = h.Message
			}

			line := fmt.Sprintf("   %s %s %s", treePrefix(i, len(components)), statusIcon(h.Status), name)
			if details != "" {
				line += ": " + details
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)

		if healthy == len(components) {
			fmt.Fprintf(w, "✅ All components healthy (%d/%d)\n", healthy, len(components))
		} else {
			fmt.Fprintf(w, "⚠️  Some components have issues (%d/%d healthy)\n", healthy, len(components))
		}
	}

	var routes []Route
	for _, c := range components {
		if rp, ok := c.(RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}
	if len(routes) > 0 {
		fmt.Fprintf(w, "\n🛣️  Routes\n")
		for i, rt := range routes {
			fmt.Fprintf(w, "   %s %-6s %s\n", treePrefix(i, len(routes)), rt.Method, rt.Path)
		}
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(s HealthStatus) string {
	switch s {
	case StatusHealthy:
		return "✅"
	case StatusDegraded:
		return "⚠️"
	default:
		return "❌"
	}
}
