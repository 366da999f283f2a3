// Package logger provides structured logging for voicenotes using zerolog.
//
// Every long-lived part of the daemon (backend client, recording controller,
// vault, control server) logs through a component logger obtained from the
// global logger:
//
//	log := logger.WithComponent("recording")
//	log.Info("recording started", logger.Fields("backend", url))
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
package logger
