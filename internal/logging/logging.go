// Package logging sets up slog loggers for the plugin and its tools.
//
// Inside Mumble every record is rendered as one plain text line and handed
// to the host's log callback, so it shows up in Mumble's console. Outside
// Mumble (mumble-dbus-ctl) records go to stderr through slog's text handler.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/restitux/mumble-dbus/internal/mumble"
)

// LogLevel represents the available logging levels
type LogLevel string

const (
	LogLevelError LogLevel = "error"
	LogLevelWarn  LogLevel = "warn"
	LogLevelInfo  LogLevel = "info"
	LogLevelDebug LogLevel = "debug"
)

// ParseLevel converts a string to a LogLevel
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToLower(level) {
	case "error":
		return LogLevelError, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	default:
		return "", fmt.Errorf("invalid log level: %s (must be error, warn, info, or debug)", level)
	}
}

// Level maps a LogLevel onto slog's levels. Unknown values map to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// NewTextLogger creates a logger writing slog text records to w.
func NewTextLogger(w io.Writer, level LogLevel) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level.Level(),
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewHostLogger creates a logger that forwards records to Mumble's log
// callback. Lines the host refuses are written to stderr instead.
func NewHostLogger(api mumble.API, id mumble.PluginID, level LogLevel) *slog.Logger {
	return slog.New(NewHostHandler(api, id, level.Level(), os.Stderr))
}

// HostHandler is a slog.Handler that writes "message key=value ..." lines
// through mumble.API.Log.
type HostHandler struct {
	api      mumble.API
	id       mumble.PluginID
	level    slog.Leveler
	fallback io.Writer
	fbMu     *sync.Mutex

	prefix string // pre-rendered attrs from WithAttrs
	group  string // dotted group prefix from WithGroup
}

// NewHostHandler returns a HostHandler. fallback may be nil, in which case
// lines rejected by the host are dropped.
func NewHostHandler(api mumble.API, id mumble.PluginID, level slog.Leveler, fallback io.Writer) *HostHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &HostHandler{
		api:      api,
		id:       id,
		level:    level,
		fallback: fallback,
		fbMu:     &sync.Mutex{},
	}
}

func (h *HostHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *HostHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if r.Level >= slog.LevelWarn {
		b.WriteString(r.Level.String())
		b.WriteString(": ")
	}
	b.WriteString(r.Message)
	b.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.group, a)
		return true
	})

	line := b.String()
	if err := h.api.Log(h.id, line); err != nil {
		if h.fallback == nil {
			return err
		}
		h.fbMu.Lock()
		defer h.fbMu.Unlock()
		_, werr := fmt.Fprintf(h.fallback, "%s (host log failed: %v)\n", line, err)
		return werr
	}
	return nil
}

func (h *HostHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.prefix)
	for _, a := range attrs {
		appendAttr(&b, h.group, a)
	}
	h2 := *h
	h2.prefix = b.String()
	return &h2
}

func (h *HostHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = h.group + name + "."
	return &h2
}

func appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := group
		if a.Key != "" {
			sub = group + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, sub, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(group)
	b.WriteString(a.Key)
	b.WriteByte('=')
	v := a.Value.String()
	if v == "" || strings.ContainsAny(v, " \t\"=") {
		fmt.Fprintf(b, "%q", v)
	} else {
		b.WriteString(v)
	}
}
