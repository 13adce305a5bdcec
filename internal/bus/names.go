// Package bus exposes the mute actions on D-Bus and runs the pump that
// serializes incoming calls onto a single goroutine.
//
// Any local peer that can reach the bus may call the exposed methods. There
// is no authorization beyond the bus daemon's own policy.
package bus

import "github.com/godbus/dbus/v5"

// Well-known names of the exposed service.
const (
	ServiceName   = "xyz.ohea.mumble_dbus"
	InterfaceName = "xyz.ohea.mumble_dbus"
	ObjectPath    = dbus.ObjectPath("/xyz/ohea/mumble_dbus")
)

// Method names, fully qualified for client calls.
const (
	MethodSetMute    = InterfaceName + ".SetMute"
	MethodToggleMute = InterfaceName + ".ToggleMute"
)

// nameFlags lets this service take the name over from a running instance and
// hand it to a later one.
const nameFlags = dbus.NameFlagAllowReplacement | dbus.NameFlagReplaceExisting
