// Package cli implements the folioview command-line interface.
//
// Each command wraps the view-state core in pkg/viewer. It loads a manifest
// (a local file, or an http(s) URL cached through pkg/cache), applies a URL
// fragment, and reports or renders where the viewer ends up:
//   - resolve prints the resolved state of one fragment
//   - layout prints page rectangles
//   - modes draws the view mode state machine as DOT or SVG
//   - view browses a manifest interactively in the terminal
//   - serve runs the HTTP API
//   - bookmark saves and recalls deep links
//   - cache inspects and clears the manifest cache
//
// Commands are built with cobra and styled with lipgloss. Logging goes
// through charmbracelet/log on stderr; --verbose lowers the level to debug
// and --log-format switches to json or logfmt for log collectors. The logger
// travels in the command context, so helpers deep in a command can log
// without a reference to the CLI.
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger on w that stamps entries with a centisecond
// clock ("14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// setLogFormat switches l to the named formatter.
func setLogFormat(l *log.Logger, format string) error {
	switch format {
	case "", "text":
		l.SetFormatter(log.TextFormatter)
	case "json":
		l.SetFormatter(log.JSONFormatter)
	case "logfmt":
		l.SetFormatter(log.LogfmtFormatter)
	default:
		return fmt.Errorf("invalid log format: %q (must be text, json or logfmt)", format)
	}
	return nil
}

// progress times one step of a command.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with elapsed (to the millisecond) first,
// then keyvals.
func (p *progress) done(msg string, keyvals ...any) {
	kv := append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, kv...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or the
// package default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
