// Package adapter implements the plugin side of the Mumble plugin ABI: it
// captures the host callback table, brings up the D-Bus service in init and
// tears it down in shutdown.
//
// The cgo layer in cmd/mumble-dbus holds exactly one Plugin for the life of
// the process and forwards every exported entry point to it.
package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/restitux/mumble-dbus/internal/bus"
	"github.com/restitux/mumble-dbus/internal/config"
	"github.com/restitux/mumble-dbus/internal/logging"
	"github.com/restitux/mumble-dbus/internal/mumble"
)

// shutdownTimeout bounds how long Shutdown waits for an in-flight bus call.
// Mumble may be blocked on its own main thread while we wait.
const shutdownTimeout = 2 * time.Second

// Dialer opens a bus connection.
type Dialer func(cfg config.BusConfig) (bus.Conn, error)

// Option configures a Plugin.
type Option func(*Plugin)

// WithDialer replaces bus.Dial.
func WithDialer(d Dialer) Option {
	return func(p *Plugin) { p.dial = d }
}

// WithConfig uses cfg instead of loading the config file in Init.
func WithConfig(cfg config.Config) Option {
	return func(p *Plugin) { p.cfg = &cfg }
}

// Plugin is the process-wide plugin state.
type Plugin struct {
	mu sync.Mutex

	api mumble.API
	id  mumble.PluginID

	dial   Dialer
	cfg    *config.Config
	logger *slog.Logger

	service *bus.Service
}

// New returns a Plugin that has not been registered or initialized.
func New(opts ...Option) *Plugin {
	p := &Plugin{dial: bus.Dial}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RegisterAPIFunctions stores the host callback table. Mumble calls this once,
// before Init.
func (p *Plugin) RegisterAPIFunctions(api mumble.API) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.api = api
}

// Init brings up the bus service: connect, export the methods, claim the
// service name, start the pump. The first failing step is logged and Init
// returns ECGenericError without attempting the rest. Nothing acquired by
// earlier steps is released.
func (p *Plugin) Init(id mumble.PluginID) mumble.ErrorCode {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.api == nil {
		fmt.Fprintln(os.Stderr, "mumble-dbus: init called before registerAPIFunctions")
		return mumble.ECGenericError
	}

	p.id = id
	cfg, cfgErr := p.loadConfig()
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logging.LogLevelInfo
	}
	p.logger = logging.NewHostLogger(p.api, id, level)

	p.logger.Info("Starting Mumble DBus Plugin", "version", mumble.PluginVersion.String())
	if cfgErr != nil {
		p.logger.Warn("ignoring config file, using defaults", "error", cfgErr)
	}

	conn, err := p.dial(cfg.Bus)
	if err != nil {
		p.logger.Error("Failed to connect to bus", "bus", cfg.Bus.Kind, "error", err)
		return mumble.ECGenericError
	}

	handler := &muteController{api: p.api, id: id, logger: p.logger}
	svc := bus.NewService(conn, handler, p.logger)

	if err := svc.Export(); err != nil {
		p.logger.Error("Failed to export mute methods", "error", err)
		return mumble.ECGenericError
	}

	if err := svc.RequestName(); err != nil {
		p.logger.Error("Failed to acquire service name", "name", bus.ServiceName, "error", err)
		return mumble.ECGenericError
	}

	svc.Start(context.Background())
	p.service = svc

	p.logger.Debug("bus service running", "name", bus.ServiceName, "path", bus.ObjectPath)
	return mumble.StatusOK
}

// Shutdown says goodbye, stops the pump and closes the bus connection.
func (p *Plugin) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.logger == nil {
		if p.api == nil {
			return
		}
		p.logger = logging.NewHostLogger(p.api, p.id, logging.LogLevelInfo)
	}
	p.logger.Info("Goodbye Mumble")

	if p.service == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := p.service.Stop(ctx); err != nil {
		p.logger.Warn("bus service did not stop cleanly", "error", err)
	}
	p.service = nil
}

// Service returns the running bus service, or nil.
func (p *Plugin) Service() *bus.Service {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.service
}

func (p *Plugin) loadConfig() (config.Config, error) {
	if p.cfg != nil {
		return *p.cfg, nil
	}
	cfg, _, err := config.Load()
	return cfg, err
}
