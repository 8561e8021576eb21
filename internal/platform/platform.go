// Package platform derives the shell capabilities available on a given
// Windows release.
package platform

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// Well-known Windows NT versions.
var (
	Vista   = version.Must(version.NewVersion("6.0"))
	Win7    = version.Must(version.NewVersion("6.1"))
	Win8    = version.Must(version.NewVersion("6.2"))
	Win10   = version.Must(version.NewVersion("10.0"))
	Default = Win10
)

// Caps are the capability flags the scene catalog and loader consult.
type Caps struct {
	Version *version.Version

	// DesktopBackground, Library and CommandStore are missing on Vista.
	DesktopBackground bool
	Library           bool
	CommandStore      bool
	// UWPLink needs Windows 8.
	UWPLink bool
	// UWPMode enables UWP alternate-invocation entries (Windows 10+).
	UWPMode bool
}

// FromVersion parses an NT version string such as "6.1" or "10.0.19045".
func FromVersion(v string) (Caps, error) {
	ver, err := version.NewVersion(v)
	if err != nil {
		return Caps{}, fmt.Errorf("parse os version %q: %w", v, err)
	}
	return For(ver), nil
}

// For computes the capabilities of ver.
func For(ver *version.Version) Caps {
	isVista := ver.Segments()[0] == 6 && ver.Segments()[1] == 0
	return Caps{
		Version:           ver,
		DesktopBackground: !isVista,
		Library:           !isVista,
		CommandStore:      !isVista,
		UWPLink:           ver.GreaterThanOrEqual(Win8),
		UWPMode:           ver.GreaterThanOrEqual(Win10),
	}
}

// All enables every capability. Useful for fixture stores.
func All() Caps {
	return For(Default)
}

func (c Caps) String() string {
	if c.Version == nil {
		return "unknown"
	}
	return c.Version.String()
}
