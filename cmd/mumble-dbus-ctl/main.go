// Command mumble-dbus-ctl sends mute commands to the mumble-dbus plugin over
// D-Bus.
//
// Usage:
//
//	mumble-dbus-ctl mute
//	mumble-dbus-ctl unmute
//	mumble-dbus-ctl toggle
//	mumble-dbus-ctl set true|false
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
