// Command voicenotes runs the voice notes daemon and drives it from the
// command line.
//
//	voicenotes serve                      run the daemon
//	voicenotes toggle                     start or stop recording
//	voicenotes settings targetNoteName=Inbox.md
//	voicenotes doctor                     check the backend and the model server
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/voicenotes/errors"
)

const usage = `usage: voicenotes [flags] <command> [args]

commands:
  serve                 run the daemon
  start | stop | toggle start, stop or toggle recording
  insert-last           append the last transcription to the target note
  status                show the indicator and recording state
  commands              list registered commands
  last                  print the last transcription
  settings [key=value]  show or change settings
  doctor                test the backend and the model server
  watch                 stream indicator changes and notices
  version               print build information

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// globalFlags are accepted before the command name.
type globalFlags struct {
	configFile string
	envFile    string
	addr       string
	token      string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("voicenotes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var g globalFlags
	fs.StringVar(&g.configFile, "config", "", "path to config.yml")
	fs.StringVar(&g.envFile, "env", "", "path to a .env file")
	fs.StringVar(&g.addr, "addr", "", "control server address (default from config)")
	fs.StringVar(&g.token, "token", "", "control server token (default from config)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		fs.Usage()
		return 2
	}

	env := &cliEnv{flags: g, stdout: stdout, stderr: stderr}
	if err := cmd(ctx, env, rest); err != nil {
		fmt.Fprintf(stderr, "voicenotes %s: %s\n", name, errors.Message(err))
		return 1
	}
	return 0
}
