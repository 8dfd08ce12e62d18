// Package cli implements the learnconnect command. Every command drives
// one of the view controllers and prints the resulting screen.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	learnconnect "github.com/learnconnect/learnconnect.go"
	"github.com/learnconnect/learnconnect.go/internal/config"
	"github.com/learnconnect/learnconnect.go/pkg/connection"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/credential"
	"github.com/learnconnect/learnconnect.go/pkg/logger"
	logslog "github.com/learnconnect/learnconnect.go/pkg/logger/slog"
	"github.com/learnconnect/learnconnect.go/pkg/views"
)

type app struct {
	cfg    config.Config
	out    io.Writer
	errOut io.Writer

	log      logger.Logger
	closeLog func() error
	sessions *credential.Store
	client   *learnconnect.Client
}

// newLogger builds the zerolog logger, or the slog text logger when
// LogFormat is "text". Both write to LogPath when it is set.
func newLogger(cfg config.Config, errOut io.Writer) (logger.Logger, func() error, error) {
	if cfg.LogFormat != "text" {
		build := logger.New().WithLevel(cfg.LogLevel).FromBuffer(errOut)
		if cfg.LogPath != "" {
			build = build.FromPath(cfg.LogPath)
		}
		data, err := build.Make()
		if err != nil {
			return nil, nil, err
		}
		return data, data.Close, nil
	}

	if cfg.LogPath == "" {
		return logslog.NewText(errOut, cfg.LogLevel), func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
	if err != nil {
		return nil, nil, err
	}
	return logslog.NewText(f, cfg.LogLevel), f.Close, nil
}

func newApp(cfg config.Config, out, errOut io.Writer) (*app, error) {
	log, closeLog, err := newLogger(cfg, errOut)
	if err != nil {
		return nil, err
	}

	var opts []credential.Option
	opts = append(opts, credential.WithLogger(log))
	if cfg.SecretHash != "" {
		opts = append(opts, credential.WithSecureCookie([]byte(cfg.SecretHash), []byte(cfg.SecretBlock)))
	}
	sessions := credential.NewBolt(cfg.SessionPath, opts...)

	connCfg, err := connection.NewConfigFromString(cfg.BaseURL)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	connCfg.Timeout = cfg.Timeout
	connCfg.Logger = log
	connCfg.Tokens = sessions

	client, err := learnconnect.New(connCfg)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	return &app{cfg: cfg, out: out, errOut: errOut, log: log, closeLog: closeLog, sessions: sessions, client: client}, nil
}

func (a *app) Close() error {
	return errors.Join(a.sessions.Close(), a.closeLog())
}

func (a *app) deps() views.Deps {
	return views.Deps{
		API:      a.client,
		Sessions: a.sessions,
		Nav:      printNavigator{w: a.out},
		Logger:   a.log,
	}
}

// printNavigator reports navigation instead of performing it.
type printNavigator struct {
	w io.Writer
}

func (n printNavigator) Navigate(route string) {
	color.New(color.FgCyan).Fprintf(n.w, "-> %s\n", route)
}

// reportedError marks an error the user has already seen.
type reportedError struct {
	error
}

func (e *reportedError) Unwrap() error {
	return e.error
}

// fail prints err as a banner and returns it. A missing session gets a
// hint instead of the raw error.
func (a *app) fail(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, constants.ErrAuthRequired) {
		color.New(color.FgYellow).Fprintln(a.errOut, "not signed in, run `learnconnect login` first")
		return &reportedError{err}
	}
	color.New(color.FgRed, color.Bold).Fprintf(a.errOut, "error: %s\n", connection.Message(err, op))
	return &reportedError{err}
}

// failForm prints the message a form kept after a failed submit.
func (a *app) failForm(err error, message string) error {
	if message == "" {
		return a.fail(err, "Request")
	}
	color.New(color.FgRed, color.Bold).Fprintf(a.errOut, "error: %s\n", message)
	return &reportedError{err}
}

func (a *app) okf(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(a.out, format+"\n", args...)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

func (a *app) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, a.cfg.Timeout)
}
