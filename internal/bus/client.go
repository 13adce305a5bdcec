package bus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// caller is satisfied by dbus.BusObject.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Client calls the mute service from another process.
type Client struct {
	obj caller
}

// NewClient returns a Client bound to the service object on conn.
func NewClient(conn *dbus.Conn) *Client {
	return &Client{obj: conn.Object(ServiceName, ObjectPath)}
}

// SetMute sets Mumble's local mute state.
func (c *Client) SetMute(ctx context.Context, muted bool) error {
	if err := c.obj.CallWithContext(ctx, MethodSetMute, 0, muted).Err; err != nil {
		return fmt.Errorf("call %s: %w", MethodSetMute, err)
	}
	return nil
}

// ToggleMute flips Mumble's local mute state.
func (c *Client) ToggleMute(ctx context.Context) error {
	if err := c.obj.CallWithContext(ctx, MethodToggleMute, 0).Err; err != nil {
		return fmt.Errorf("call %s: %w", MethodToggleMute, err)
	}
	return nil
}
