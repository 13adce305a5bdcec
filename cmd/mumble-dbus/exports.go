package main

/*
#cgo CFLAGS: -I${SRCDIR}/../../third_party/mumble
#include <stdlib.h>
#include "shim.h"
*/
import "C"

import (
	"os"

	"github.com/restitux/mumble-dbus/internal/adapter"
	"github.com/restitux/mumble-dbus/internal/mumble"
)

// plugin is the one adapter instance Mumble talks to. The C ABI has no
// user-data pointer, so it has to live at package level.
var plugin = adapter.New()

// Identification strings, allocated once and never freed.
var (
	cName        = newCString(adapter.Name())
	cAuthor      = newCString(adapter.Author())
	cDescription = newCString(adapter.Description())
)

type cString struct {
	data           *C.char
	size           C.size_t
	needsReleasing bool
}

func newCString(w adapter.StringWrapper) cString {
	return cString{
		data:           C.CString(w.Data),
		size:           C.size_t(len(w.Data)),
		needsReleasing: w.NeedsReleasing,
	}
}

func (s cString) wrapper() C.struct_MumbleStringWrapper {
	return C.struct_MumbleStringWrapper{
		data:           s.data,
		size:           s.size,
		needsReleasing: C.bool(s.needsReleasing),
	}
}

//export goRegisterAPIFunctions
func goRegisterAPIFunctions() {
	plugin.RegisterAPIFunctions(hostAPI{})
}

//export goReleaseResource
func goReleaseResource() {
	adapter.ReleaseResource(os.Stderr, func() { C.abort() })
}

//export mumble_init
func mumble_init(id C.mumble_plugin_id_t) C.mumble_error_t {
	return C.mumble_error_t(plugin.Init(mumble.PluginID(id)))
}

//export mumble_shutdown
func mumble_shutdown() {
	plugin.Shutdown()
}

//export mumble_getName
func mumble_getName() C.struct_MumbleStringWrapper {
	return cName.wrapper()
}

//export mumble_getAuthor
func mumble_getAuthor() C.struct_MumbleStringWrapper {
	return cAuthor.wrapper()
}

//export mumble_getDescription
func mumble_getDescription() C.struct_MumbleStringWrapper {
	return cDescription.wrapper()
}

//export mumble_getVersion
func mumble_getVersion() C.mumble_version_t {
	v := adapter.Version()
	return C.mumble_version_t{
		major: C.int32_t(v.Major),
		minor: C.int32_t(v.Minor),
		patch: C.int32_t(v.Patch),
	}
}
