// Package analysis infers which scenes apply to a concrete file-system
// object, so the user can jump from "this file" to every menu it gets.
package analysis

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"shellmenu/internal/catalog"
	"shellmenu/internal/model"
	"shellmenu/internal/selection"
)

// ErrNoPerceivedType rejects a perceived-type candidate that carries no
// registered value.
var ErrNoPerceivedType = errors.New("candidate has no perceived type")

// Engine analyzes paths on Fs. Links resolves shortcut targets; a nil
// Links leaves shortcuts unresolved.
type Engine struct {
	Fs      afero.Fs
	Links   LinkResolver
	Catalog *catalog.Catalog
	Logger  *log.Logger
}

// New returns an engine that resolves .lnk shortcuts by parsing them and
// falls back to symbolic links where fs supports them.
func New(fs afero.Fs, c *catalog.Catalog) *Engine {
	return &Engine{
		Fs:      fs,
		Links:   Chain{ShellLinkResolver{Fs: fs}, SymlinkResolver{Fs: fs}},
		Catalog: c,
		Logger:  log.New(io.Discard),
	}
}

// Analyze returns the candidate scenes of path in display order. Paths that
// name neither a file nor a directory have none.
func (e *Engine) Analyze(path string) []model.Candidate {
	if path == "" {
		return nil
	}
	fi, err := e.Fs.Stat(path)
	if err != nil {
		e.logger().Debug("analysis target missing", "path", path, "err", err)
		return nil
	}
	if fi.IsDir() {
		return e.dirCandidates(path)
	}

	if !strings.EqualFold(model.Extension(path), model.ExtLnk) {
		return e.fileCandidates(path)
	}
	out := []model.Candidate{{Scene: model.SceneLnkFile, Extension: model.ExtLnk, Target: path}}
	if e.Links == nil {
		return out
	}
	target, ok := e.Links.Resolve(path)
	if !ok {
		return out
	}
	tfi, err := e.Fs.Stat(target)
	if err != nil {
		e.logger().Debug("link target missing", "link", path, "target", target)
		return out
	}
	if tfi.IsDir() {
		return append(out, e.dirCandidates(target)...)
	}
	return append(out, e.fileCandidates(target)...)
}

func (e *Engine) fileCandidates(path string) []model.Candidate {
	ext := model.NormalizeExtension(strings.ToLower(model.Extension(path)))
	pt, hasPT := e.Catalog.PerceivedType(ext)
	_, hasOpenVerb := e.Catalog.OpenVerb(ext)

	c := func(scene model.Scene) model.Candidate {
		return model.Candidate{Scene: scene, Extension: ext, PerceivedType: pt, Target: path}
	}
	out := []model.Candidate{
		c(model.SceneFile),
		c(model.SceneAllObjects),
		c(model.SceneCustomExtension),
	}
	if !hasOpenVerb {
		out = append(out, c(model.SceneUnknownType))
	}
	if hasPT {
		out = append(out, c(model.ScenePerceivedType))
	}
	return out
}

func (e *Engine) dirCandidates(path string) []model.Candidate {
	c := func(scene model.Scene) model.Candidate {
		return model.Candidate{Scene: scene, Target: path}
	}
	if model.IsDriveRoot(path) {
		return []model.Candidate{c(model.SceneDrive)}
	}
	return []model.Candidate{
		c(model.SceneFolder),
		c(model.SceneDirectory),
		c(model.SceneAllObjects),
		c(model.SceneDirectoryType),
	}
}

// Activate prepares the selection for jumping to c and returns the scene to
// show.
func (e *Engine) Activate(c model.Candidate, sel *selection.State) (model.Scene, error) {
	switch c.Scene {
	case model.SceneCustomExtension:
		sel.SetExtension(c.Extension)
	case model.ScenePerceivedType:
		if c.PerceivedType == "" {
			return c.Scene, fmt.Errorf("activate %s: %w", c.Scene, ErrNoPerceivedType)
		}
		sel.AdoptPerceivedType(c.PerceivedType)
	}
	return c.Scene, nil
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}
