// Package component defines the lifecycle contract shared by the daemon's
// long-running parts (vault, plugin, control server, event hub).
//
// Components are registered in dependency order, started in that order and
// stopped in reverse. Optional interfaces let a component describe itself
// and list its HTTP routes for the startup summary.
//
// # Interfaces
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: startup summary descriptions
//   - RouteProvider: HTTP routes for the startup summary
package component
