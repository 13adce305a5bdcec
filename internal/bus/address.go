package bus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/restitux/mumble-dbus/internal/config"
)

const defaultSystemBusAddress = "unix:path=/var/run/dbus/system_bus_socket"

// ErrNoSessionBus is returned when no session bus address can be found.
var ErrNoSessionBus = errors.New("no session bus available")

// Address resolves the D-Bus address for cfg.
//
// The lookup order matches libsystemd's sd_bus_open_user and
// sd_bus_open_system: an explicit address, then DBUS_SESSION_BUS_ADDRESS
// (DBUS_SYSTEM_BUS_ADDRESS), then the well-known socket path.
func Address(cfg config.BusConfig) (string, error) {
	if cfg.Address != "" {
		return cfg.Address, nil
	}

	switch cfg.Kind {
	case config.BusSystem:
		if addr := os.Getenv("DBUS_SYSTEM_BUS_ADDRESS"); addr != "" {
			return addr, nil
		}
		return defaultSystemBusAddress, nil

	case config.BusSession, "":
		if addr := os.Getenv("DBUS_SESSION_BUS_ADDRESS"); addr != "" {
			return addr, nil
		}
		path := userBusPath()
		if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrNoSessionBus, path, err)
		}
		return "unix:path=" + path, nil

	default:
		return "", fmt.Errorf("unknown bus kind %q", cfg.Kind)
	}
}

// userBusPath is $XDG_RUNTIME_DIR/bus, or /run/user/<uid>/bus.
func userBusPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = filepath.Join("/run/user", strconv.Itoa(unix.Getuid()))
	}
	return filepath.Join(dir, "bus")
}
