// Command hirelane is a small terminal client for the Hirelane API.
//
//	hirelane login -email grace@example.com
//	hirelane jobs -search golang -active
//	hirelane upcoming
//	hirelane keepalive -metrics-addr :9464
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/hirelane/hirelane/sdk/go"
	"github.com/hirelane/hirelane/sdk/go/config"
	"github.com/hirelane/hirelane/sdk/go/metrics"
	"github.com/hirelane/hirelane/sdk/go/telemetry"
)

const usage = `usage: hirelane [-base-url URL] <command> [flags]

commands:
  login         sign in and remember the session
  logout        revoke and forget the session
  whoami        show the signed-in user
  jobs          list the job board
  applications  list your applications
  upcoming      show calendar events for the next seven days
  stats         show the recruiter dashboard (or -public board totals)
  keepalive     keep the session fresh until interrupted
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "hirelane:", err)
		os.Exit(1)
	}
}

// app is what every command runs against.
type app struct {
	cfg      config.Config
	client   *sdk.Client
	logger   zerolog.Logger
	registry *prometheus.Registry
	out      io.Writer
	stdin    io.Reader
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("hirelane", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	baseURL := fs.String("base-url", cfg.BaseURL, "Hirelane API base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.BaseURL = *baseURL
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	a, closeStore, err := newApp(cfg, stdout, stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.logger.Warn().Err(err).Msg("close session store")
		}
	}()
	if _, err := a.client.Session().Restore(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("restore session")
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami()
	case "jobs":
		return a.jobs(ctx, rest)
	case "applications":
		return a.applications(ctx, rest)
	case "upcoming":
		return a.upcoming(ctx)
	case "stats":
		return a.stats(ctx, rest)
	case "keepalive":
		return a.keepalive(ctx, rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newApp(cfg config.Config, stdout, stderr io.Writer) (*app, func() error, error) {
	logger := newLogger(stderr, cfg.LogLevel)
	store, closeStore, err := cfg.PersistentStore()
	if err != nil {
		return nil, nil, err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	client, err := sdk.NewClient(sdk.Config{
		BaseURL:    cfg.BaseURL,
		Persistent: store,
		UserAgent:  cfg.UserAgent,
		Telemetry:  telemetry.Combine(telemetry.Zerolog(logger), m.Hooks()),
		OnSessionTerminated: func(err error) {
			logger.Warn().Err(err).Msg("session ended; run `hirelane login` again")
		},
	})
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return &app{
		cfg:      cfg,
		client:   client,
		logger:   logger,
		registry: registry,
		out:      stdout,
		stdin:    os.Stdin,
	}, closeStore, nil
}

// newLogger writes human-readable lines to a terminal and JSON otherwise.
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
