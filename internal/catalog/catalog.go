// Package catalog maps scenes to the store nodes they are registered under.
package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"shellmenu/internal/model"
	"shellmenu/internal/platform"
	"shellmenu/internal/store"
)

// Selection is the read side of the selection state the catalog consults.
type Selection interface {
	Extension() (string, bool)
	PerceivedType() (string, bool)
	DirectoryType() (string, bool)
	CustomPath() (string, bool)
}

// Catalog resolves base paths. It only reads the store.
type Catalog struct {
	store  store.Store
	caps   platform.Caps
	logger *log.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// New returns a catalog over s for a platform with caps.
func New(s store.Store, caps platform.Caps, opts ...Option) *Catalog {
	c := &Catalog{store: s, caps: caps, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Caps returns the platform capabilities the catalog was built with.
func (c *Catalog) Caps() platform.Caps { return c.caps }

// Store returns the underlying store.
func (c *Catalog) Store() store.Store { return c.store }

// Supported reports whether scene exists on the catalog's platform.
func (c *Catalog) Supported(scene model.Scene) bool {
	switch scene {
	case model.SceneDesktop:
		return c.caps.DesktopBackground
	case model.SceneLibrary:
		return c.caps.Library
	case model.SceneUwpLnk:
		return c.caps.UWPLink
	case model.SceneCommandStore:
		return c.caps.CommandStore
	}
	return true
}

// ResolveBasePath returns the single base path of scene. ok is false when the
// scene has no base path: the feature is missing on this platform, the
// selection it depends on is empty, or the scene is loaded by a dedicated
// procedure (command store, drag-drop, analysis).
func (c *Catalog) ResolveBasePath(scene model.Scene, sel Selection) (path string, ok bool) {
	switch scene {
	case model.SceneFile:
		return model.MenuPathFile, true
	case model.SceneFolder:
		return model.MenuPathFolder, true
	case model.SceneDirectory:
		return model.MenuPathDirectory, true
	case model.SceneBackground:
		return model.MenuPathBackground, true
	case model.SceneDesktop:
		if !c.caps.DesktopBackground {
			return c.absent(scene, "desktop background unsupported")
		}
		return model.MenuPathDesktop, true
	case model.SceneDrive:
		return model.MenuPathDrive, true
	case model.SceneAllObjects:
		return model.MenuPathAllObjects, true
	case model.SceneComputer:
		return model.MenuPathComputer, true
	case model.SceneRecycleBin:
		return model.MenuPathRecycleBin, true
	case model.SceneLibrary:
		if !c.caps.Library {
			return c.absent(scene, "libraries unsupported")
		}
		return model.MenuPathLibrary, true
	case model.SceneLnkFile:
		return c.OpenVerbPath(model.ExtLnk)
	case model.SceneUwpLnk:
		if !c.caps.UWPLink {
			return c.absent(scene, "uwp links unsupported")
		}
		return model.MenuPathUwpLnk, true
	case model.SceneExeFile:
		return model.SysAssPath(model.ExtExe), true
	case model.SceneUnknownType:
		return model.MenuPathUnknown, true
	case model.SceneCustomExtension:
		ext, ok := sel.Extension()
		if !ok {
			return c.absent(scene, "no extension selected")
		}
		if strings.EqualFold(ext, model.ExtLnk) {
			return c.OpenVerbPath(model.ExtLnk)
		}
		return model.SysAssPath(ext), true
	case model.ScenePerceivedType:
		pt, ok := sel.PerceivedType()
		if !ok {
			return c.absent(scene, "no perceived type selected")
		}
		return model.SysAssPath(pt), true
	case model.SceneDirectoryType:
		dt, ok := sel.DirectoryType()
		if !ok {
			return c.absent(scene, "no directory type selected")
		}
		return model.SysAssPath("Directory." + dt), true
	case model.SceneCustomRegPath:
		p, ok := sel.CustomPath()
		if !ok {
			return c.absent(scene, "no custom path selected")
		}
		return p, true
	case model.SceneCommandStore, model.SceneDragDrop, model.SceneMenuAnalysis:
		return "", false
	}
	panic(fmt.Sprintf("catalog: unhandled scene %v", scene))
}

func (c *Catalog) absent(scene model.Scene, why string) (string, bool) {
	c.logger.Debug("no base path", "scene", scene, "reason", why)
	return "", false
}

// ExtraBasePaths lists the paths loaded after the primary one, in order.
func (c *Catalog) ExtraBasePaths(scene model.Scene, sel Selection) []string {
	switch scene {
	case model.SceneLibrary:
		if !c.caps.Library {
			return nil
		}
		return []string{model.MenuPathLibraryBackground, model.MenuPathLibraryUser}
	case model.SceneExeFile:
		if p, ok := c.OpenVerbPath(model.ExtExe); ok {
			return []string{p}
		}
	case model.SceneCustomExtension:
		ext, ok := sel.Extension()
		if !ok {
			return nil
		}
		p, ok := c.OpenVerbPath(ext)
		if !ok {
			return nil
		}
		// A .lnk selection already resolved to its open verb.
		if primary, _ := c.ResolveBasePath(scene, sel); store.EqualPath(primary, p) {
			return nil
		}
		return []string{p}
	}
	return nil
}

// OpenVerb returns the ProgID that opens files with extension ext: the
// user's explicit choice if there is one, otherwise the class registered
// for the extension.
func (c *Catalog) OpenVerb(ext string) (string, bool) {
	ext = model.NormalizeExtension(ext)
	choice := store.Join(model.FileExtsPath, ext, "UserChoice")
	if v, ok := c.store.Value(choice, "ProgId"); ok && v.Text() != "" {
		return v.Text(), true
	}
	if v, ok := c.store.Value(model.ClassPath(ext), ""); ok && v.Text() != "" {
		return v.Text(), true
	}
	return "", false
}

// OpenVerbPath is the base path of the open verb of ext.
func (c *Catalog) OpenVerbPath(ext string) (string, bool) {
	progID, ok := c.OpenVerb(ext)
	if !ok {
		c.logger.Debug("no open verb", "ext", ext)
		return "", false
	}
	return model.ClassPath(progID), true
}

// PerceivedType returns the perceived type registered for ext.
func (c *Catalog) PerceivedType(ext string) (string, bool) {
	ext = model.NormalizeExtension(ext)
	v, ok := c.store.Value(model.ClassPath(ext), model.PerceivedTypeValue)
	if !ok || v.Text() == "" {
		return "", false
	}
	return v.Text(), true
}
