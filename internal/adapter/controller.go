package adapter

import (
	"log/slog"

	"github.com/restitux/mumble-dbus/internal/mumble"
)

// muteController turns bus calls into host callback calls. The mute state is
// never cached; it is read from and written to Mumble on every call.
//
// Host status codes are logged at debug level and otherwise ignored: the
// caller still gets an empty reply.
type muteController struct {
	api    mumble.API
	id     mumble.PluginID
	logger *slog.Logger
}

func (c *muteController) SetMute(muted bool) {
	c.logger.Info("Setting mute status", "muted", muted)
	if err := c.api.RequestLocalUserMute(c.id, muted); err != nil {
		c.logger.Debug("host rejected mute request", "error", err)
	}
}

func (c *muteController) ToggleMute() {
	muted, err := c.api.IsLocalUserMuted(c.id)
	if err != nil {
		c.logger.Debug("host failed to report mute status", "error", err)
	}

	c.logger.Info("Setting mute status", "muted", !muted)
	if err := c.api.RequestLocalUserMute(c.id, !muted); err != nil {
		c.logger.Debug("host rejected mute request", "error", err)
	}
}
