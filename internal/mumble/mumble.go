// Package mumble models the parts of the Mumble plugin API that the adapter
// talks to: the plugin identity, status codes, versions and the callback
// table the host hands to the plugin.
package mumble

import "fmt"

// PluginID is the identity token Mumble assigns to the plugin in init.
// It must be passed back on every call into the host.
type PluginID uint32

// ErrorCode mirrors mumble_error_t.
type ErrorCode int32

const (
	ECGenericError ErrorCode = -1
	StatusOK       ErrorCode = 0
)

func (c ErrorCode) String() string {
	switch c {
	case StatusOK:
		return "ok"
	case ECGenericError:
		return "generic error"
	default:
		return fmt.Sprintf("error code %d", int32(c))
	}
}

// Error is returned when a host callback reports a status other than StatusOK.
type Error struct {
	Op   string    // host callback name, e.g. "requestLocalUserMute"
	Code ErrorCode // status returned by the host
}

func (e *Error) Error() string {
	return fmt.Sprintf("mumble %s: %s", e.Op, e.Code)
}

// CheckCode converts a host status into an error. StatusOK yields nil.
func CheckCode(op string, code ErrorCode) error {
	if code == StatusOK {
		return nil
	}
	return &Error{Op: op, Code: code}
}

// API is the subset of the host callback table (MumbleAPI_v_1_0_x) the
// adapter uses. Implementations must be safe for use from any goroutine.
type API interface {
	// Log writes message to Mumble's console on behalf of the plugin.
	Log(id PluginID, message string) error
	// RequestLocalUserMute asks Mumble to (un)mute the local user.
	RequestLocalUserMute(id PluginID, muted bool) error
	// IsLocalUserMuted reports whether the local user is currently muted.
	IsLocalUserMuted(id PluginID) (bool, error)
}
