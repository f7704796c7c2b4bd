// Package cli implements the tagmagic command-line interface.
//
// The commands load a TOML tag manifest, build the tag hierarchy it
// declares and answer questions about it. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
//   - check: Validate one or more manifests, including every element's tags
//   - ancestors: Print the ordered ancestors of a tag type
//   - resolve: Resolve attribute values of a tag instance
//   - query: Match observed tags against a target type
//   - render: Draw the hierarchy as DOT, SVG, PDF or PNG, or export it as JSON
//   - explore: Browse the hierarchy interactively
//
// # Configuration
//
// Settings come from tagmagic.toml in the working directory or
// $XDG_CONFIG_HOME/tagmagic, then TAGMAGIC_* environment variables, then
// flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Checked 3 manifests (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks traces hierarchy builds, resolver lookups and cache traffic at
// debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnBuildStart(typeCount int) {
	h.logger.Debug("building hierarchy", "types", typeCount)
}

func (h *logHooks) OnBuildComplete(typeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "types", typeCount, "duration", d, "error", err)
		return
	}
	h.logger.Debug("build complete", "types", typeCount, "duration", d)
}

func (h *logHooks) OnCacheHit(keyType string)  { h.logger.Debug("cache hit", "key", keyType) }
func (h *logHooks) OnCacheMiss(keyType string) { h.logger.Debug("cache miss", "key", keyType) }
func (h *logHooks) OnCacheSet(keyType string)  { h.logger.Debug("cache set", "key", keyType) }

func (h *logHooks) OnResolve(typ, attribute string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("resolve failed", "type", typ, "attribute", attribute, "error", errs.GetCode(err))
		return
	}
	h.logger.Debug("resolved", "type", typ, "attribute", attribute, "duration", d)
}
