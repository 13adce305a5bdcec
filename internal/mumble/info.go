package mumble

import "fmt"

// Plugin identification reported to the host. All of these live for the
// whole process, so the host never has to release them.
const (
	PluginName        = "Mumble DBus Adapter"
	PluginAuthor      = "restitux <restitux@ohea.xyz>"
	PluginDescription = "A plugin to allow manipulating Mumble via DBus"
)

// Version mirrors mumble_version_t.
type Version struct {
	Major int32
	Minor int32
	Patch int32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// PluginVersion is the version of this plugin (not of the plugin API).
var PluginVersion = Version{Major: 1, Minor: 0, Patch: 0}
