package bus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/restitux/mumble-dbus/internal/config"
)

// Conn is the part of *dbus.Conn the service needs. Tests substitute fakes.
type Conn interface {
	Export(v interface{}, path dbus.ObjectPath, iface string) error
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
	// Context is done once the connection is closed or broken.
	Context() context.Context
	Close() error
}

var _ Conn = (*dbus.Conn)(nil)

// Dial opens a private, authenticated connection to the bus described by cfg.
func Dial(cfg config.BusConfig) (Conn, error) {
	addr, err := Address(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := dbus.Connect(addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return conn, nil
}
