package adapter

import (
	"fmt"
	"io"

	"github.com/restitux/mumble-dbus/internal/mumble"
)

// StringWrapper mirrors MumbleStringWrapper.
type StringWrapper struct {
	Data           string
	NeedsReleasing bool
}

// Name, Author and Description answer the host's identification queries.
// The strings are constants, so the host never needs to release them.
func Name() StringWrapper        { return StringWrapper{Data: mumble.PluginName} }
func Author() StringWrapper      { return StringWrapper{Data: mumble.PluginAuthor} }
func Description() StringWrapper { return StringWrapper{Data: mumble.PluginDescription} }

// Version is the plugin's own version.
func Version() mumble.Version { return mumble.PluginVersion }

// ReleaseResource handles mumble_releaseResource. The plugin never hands
// Mumble a resource that needs releasing, so any call means the host is
// broken: report it on w and abort. abort must not return.
func ReleaseResource(w io.Writer, abort func()) {
	fmt.Fprintln(w, "Called mumble_releaseResource but expected that this never gets called -> Aborting")
	abort()
	panic("mumble-dbus: abort returned")
}
