package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/voicenotes/backend"
	"github.com/kbukum/voicenotes/config"
	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/host"
	"github.com/kbukum/voicenotes/httpclient/sse"
	"github.com/kbukum/voicenotes/ollama"
	"github.com/kbukum/voicenotes/plugin"
	events "github.com/kbukum/voicenotes/sse"
	"github.com/kbukum/voicenotes/version"
)

type command func(ctx context.Context, env *cliEnv, args []string) error

var commands = map[string]command{
	"serve":       runServe,
	"start":       runCommand(plugin.CommandStart),
	"stop":        runCommand(plugin.CommandStop),
	"toggle":      runCommand(plugin.CommandToggle),
	"insert-last": runCommand(plugin.CommandInsertLast),
	"status":      runStatus,
	"commands":    runCommands,
	"last":        runLast,
	"settings":    runSettings,
	"doctor":      runDoctor,
	"watch":       runWatch,
	"version":     runVersion,
}

// cliEnv carries the parsed global flags and lazily loads the config.
type cliEnv struct {
	flags  globalFlags
	stdout io.Writer
	stderr io.Writer
	cfg    *Config
}

func (e *cliEnv) config() (*Config, error) {
	if e.cfg == nil {
		cfg, err := loadConfig(e.flags.configFile, e.flags.envFile)
		if err != nil {
			return nil, err
		}
		e.cfg = cfg
	}
	return e.cfg, nil
}

func (e *cliEnv) client() (*controlClient, error) {
	addr, token := e.flags.addr, e.flags.token
	if addr == "" || token == "" {
		cfg, err := e.config()
		if err != nil {
			return nil, err
		}
		if addr == "" {
			addr = cfg.Control.Addr()
		}
		if token == "" {
			token = cfg.Control.Token
		}
	}
	return newControlClient(addr, token)
}

func (e *cliEnv) printf(format string, args ...any) {
	fmt.Fprintf(e.stdout, format, args...)
}

func runServe(ctx context.Context, env *cliEnv, _ []string) error {
	cfg, err := env.config()
	if err != nil {
		return err
	}
	return serve(ctx, cfg)
}

func runCommand(id string) command {
	return func(ctx context.Context, env *cliEnv, _ []string) error {
		c, err := env.client()
		if err != nil {
			return err
		}
		resp, err := c.Execute(ctx, id)
		if err != nil {
			return err
		}
		env.printf("%s (%s)\n", resp.Indicator.Text, resp.State)
		return nil
	}
}

func runStatus(ctx context.Context, env *cliEnv, _ []string) error {
	c, err := env.client()
	if err != nil {
		return err
	}
	st, err := c.Status(ctx)
	if err != nil {
		return err
	}
	env.printf("indicator: %s\nstate:     %s\n", st.Indicator.Text, st.State)
	return nil
}

func runCommands(ctx context.Context, env *cliEnv, _ []string) error {
	c, err := env.client()
	if err != nil {
		return err
	}
	list, err := c.Commands(ctx)
	if err != nil {
		return err
	}
	for _, cmd := range list {
		env.printf("%-28s %s\n", cmd.ID, cmd.Name)
	}
	return nil
}

func runLast(ctx context.Context, env *cliEnv, _ []string) error {
	c, err := env.client()
	if err != nil {
		return err
	}
	result, err := c.LastTranscription(ctx)
	if err != nil {
		return err
	}
	env.printf("%s\n", result.Transcription)
	return nil
}

func runSettings(ctx context.Context, env *cliEnv, args []string) error {
	c, err := env.client()
	if err != nil {
		return err
	}

	var s config.Settings
	if len(args) == 0 {
		s, err = c.Settings(ctx)
	} else {
		var patch map[string]any
		if patch, err = parseSettingsArgs(args); err != nil {
			return err
		}
		s, err = c.UpdateSettings(ctx, patch)
	}
	if err != nil {
		return err
	}
	printSettings(env.stdout, s)
	return nil
}

// parseSettingsArgs turns key=value arguments into a partial settings document.
func parseSettingsArgs(args []string) (map[string]any, error) {
	patch := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.InvalidInput("settings", fmt.Sprintf("expected key=value, got %q", arg))
		}
		switch key {
		case config.KeyAutoStartListening:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, errors.InvalidInput(key, "expected true or false")
			}
			patch[key] = b
		case config.KeyBackendURL, config.KeyOllamaURL, config.KeyModelName,
			config.KeyTargetNoteName, config.KeyWakePhrase, config.KeyStopPhrase:
			patch[key] = value
		default:
			return nil, errors.InvalidInput(key, "unknown setting")
		}
	}
	return patch, nil
}

func printSettings(w io.Writer, s config.Settings) {
	fmt.Fprintf(w, "%s=%s\n", config.KeyBackendURL, s.BackendURL)
	fmt.Fprintf(w, "%s=%s\n", config.KeyOllamaURL, s.OllamaURL)
	fmt.Fprintf(w, "%s=%s\n", config.KeyModelName, s.ModelName)
	fmt.Fprintf(w, "%s=%s\n", config.KeyTargetNoteName, s.TargetNoteName)
	fmt.Fprintf(w, "%s=%s\n", config.KeyWakePhrase, s.WakePhrase)
	fmt.Fprintf(w, "%s=%s\n", config.KeyStopPhrase, s.StopPhrase)
	fmt.Fprintf(w, "%s=%t\n", config.KeyAutoStartListening, s.AutoStartListening)
}

// runDoctor checks the backend and the model server from the persisted
// settings. It does not need a running daemon.
func runDoctor(ctx context.Context, env *cliEnv, _ []string) error {
	cfg, err := env.config()
	if err != nil {
		return err
	}
	store := config.NewSettingsStore(cfg.DataFile)
	s, err := store.Load()
	if err != nil {
		return err
	}
	env.printf("settings: %s\n\n", store.Path())

	client, err := backend.New(backend.Config{URL: s.BackendURL, Timeout: 5 * time.Second})
	if err != nil {
		return err
	}
	report := plugin.CheckConnection(ctx, client)
	env.printf("Backend %s\n", report.BackendURL)
	for _, line := range report.Lines() {
		env.printf("  %s\n", line)
	}

	probe, err := ollama.Probe(ctx, s.OllamaURL, s.ModelName)
	if err != nil {
		return err
	}
	env.printf("\nModel server %s\n", probe.URL)
	if !probe.Connected {
		env.printf("  ✗ Cannot connect: %s\n", probe.Error)
		return nil
	}
	env.printf("  ✓ Connected (%d models)\n", len(probe.Models))
	if probe.ModelAvailable {
		env.printf("  ✓ Model %s is available\n", s.ModelName)
	} else {
		env.printf("  ✗ Model %s not found\n", s.ModelName)
	}
	return nil
}

func runWatch(ctx context.Context, env *cliEnv, _ []string) error {
	c, err := env.client()
	if err != nil {
		return err
	}
	return c.Watch(ctx, func(ev *sse.Event) error {
		return printEvent(env.stdout, ev)
	})
}

func printEvent(w io.Writer, ev *sse.Event) error {
	switch ev.Event {
	case events.EventTypeIndicator:
		var st host.IndicatorState
		if err := ev.Decode(&st); err != nil {
			return err
		}
		fmt.Fprintf(w, "[status] %s\n", st.Text)
	case events.EventTypeNotice:
		var n host.Notice
		if err := ev.Decode(&n); err != nil {
			return err
		}
		fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
	case events.EventTypeConnected:
		fmt.Fprintln(w, "[connected]")
	}
	return nil
}

func runVersion(_ context.Context, env *cliEnv, _ []string) error {
	env.printf("%s\n", version.Get().String())
	return nil
}
