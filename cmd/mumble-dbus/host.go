package main

/*
#include <stdlib.h>
#include "shim.h"
*/
import "C"

import (
	"unsafe"

	"github.com/restitux/mumble-dbus/internal/mumble"
)

// hostAPI calls into the callback table captured by
// mumble_registerAPIFunctions.
type hostAPI struct{}

var _ mumble.API = hostAPI{}

func (hostAPI) Log(id mumble.PluginID, message string) error {
	cs := C.CString(message)
	defer C.free(unsafe.Pointer(cs))
	code := C.shim_log(C.mumble_plugin_id_t(id), cs)
	return mumble.CheckCode("log", mumble.ErrorCode(code))
}

func (hostAPI) RequestLocalUserMute(id mumble.PluginID, muted bool) error {
	code := C.shim_request_local_user_mute(C.mumble_plugin_id_t(id), C.bool(muted))
	return mumble.CheckCode("requestLocalUserMute", mumble.ErrorCode(code))
}

func (hostAPI) IsLocalUserMuted(id mumble.PluginID) (bool, error) {
	var muted C.bool
	code := C.shim_is_local_user_muted(C.mumble_plugin_id_t(id), &muted)
	return bool(muted), mumble.CheckCode("isLocalUserMuted", mumble.ErrorCode(code))
}
