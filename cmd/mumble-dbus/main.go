// Command mumble-dbus is a Mumble plugin that exposes local mute control on
// the D-Bus session bus.
//
// # Build Instructions
//
// The plugin API headers are not vendored. Fetch them once, then build a
// shared library:
//
//	make headers
//	go build -buildmode=c-shared -o libmumble_dbus.so ./cmd/mumble-dbus
//
// Install libmumble_dbus.so through Mumble's plugin settings.
//
// # Bus Interface
//
//	service    xyz.ohea.mumble_dbus
//	object     /xyz/ohea/mumble_dbus
//	interface  xyz.ohea.mumble_dbus
//	  SetMute(b mute)
//	  ToggleMute()
//
// For example:
//
//	busctl --user call xyz.ohea.mumble_dbus /xyz/ohea/mumble_dbus xyz.ohea.mumble_dbus ToggleMute
//
// Any process that can reach the session bus may call these methods.
package main

func main() {} // Required for c-shared build mode
