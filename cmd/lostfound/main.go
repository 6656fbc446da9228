// lostfound is a command-line client for the lost & found service. It keeps
// the signed-in session on disk between runs and validates it against the
// server on every start.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/lostfound-service/internal/client"
)

const defaultServer = "http://localhost:5000/api"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		server      string
		sessionPath string
		verbose     bool
	)
	flagSet := pflag.NewFlagSet("lostfound", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&server, "server", envOr("LOSTFOUND_SERVER", defaultServer), "API base URL")
	flagSet.StringVar(&sessionPath, "session-file", "", "where the session token is kept (default: user config dir)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log requests and session handling")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printUsage(flagSet)
		return nil
	}

	name := flagSet.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		printUsage(flagSet)
		return fmt.Errorf("unknown command %q", name)
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if sessionPath == "" {
		if sessionPath, err = client.DefaultTokenPath(); err != nil {
			return fmt.Errorf("locate session file: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(server)
	session := client.NewSession(api, client.NewFileTokenStore(sessionPath), logger)
	if err := session.Load(ctx); err != nil {
		logger.Debug("session not validated", zap.Error(err))
	}

	e := &env{
		ctx:     ctx,
		session: session,
		view:    client.NewView(session, printer{}),
		logger:  logger,
	}
	if cmd.needsAuth {
		if _, ok := session.User(); !ok {
			return errors.New("not signed in; run `lostfound login` first")
		}
	}
	return cmd.run(e, flagSet.Args()[1:])
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage(flagSet *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "usage: lostfound [flags] <command> [args]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "flags:")
	fmt.Fprint(os.Stderr, flagSet.FlagUsages())
}
