// Package menu builds the entry list of a scene from the store: commands,
// shell extension handlers, drag-drop groups, UWP-mode items, policy rules
// and the pseudo rows the presentation layer needs to edit them.
package menu

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"shellmenu/internal/catalog"
	"shellmenu/internal/dict"
	"shellmenu/internal/model"
	"shellmenu/internal/platform"
	"shellmenu/internal/selection"
	"shellmenu/internal/store"
)

// Dictionaries supplies the supplementary tables for one load.
type Dictionaries interface {
	Snapshot() (*dict.Snapshot, error)
}

// Analyzer infers the scenes that apply to a file-system object.
type Analyzer interface {
	Analyze(path string) []model.Candidate
}

// Loader resolves scenes into entry lists. It holds no per-load state, so a
// single Loader serves every view.
type Loader struct {
	store    store.Store
	catalog  *catalog.Catalog
	dicts    Dictionaries
	analyzer Analyzer
	logger   *log.Logger

	systemStoreNames []string
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

// WithDictionaries sets the supplementary table source. Without one, the
// embedded defaults are used.
func WithDictionaries(d Dictionaries) Option {
	return func(ld *Loader) { ld.dicts = d }
}

// WithAnalyzer enables the analysis scene.
func WithAnalyzer(a Analyzer) Option {
	return func(ld *Loader) { ld.analyzer = a }
}

// WithSystemStoreNames replaces the command-store verbs hidden from the
// command store scene.
func WithSystemStoreNames(names []string) Option {
	return func(ld *Loader) { ld.systemStoreNames = names }
}

// NewLoader returns a loader reading through c's store.
func NewLoader(c *catalog.Catalog, opts ...Option) *Loader {
	ld := &Loader{
		store:            c.Store(),
		catalog:          c,
		dicts:            defaultDictionaries{},
		logger:           log.New(io.Discard),
		systemStoreNames: DefaultSystemStoreNames,
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Catalog returns the catalog the loader resolves through.
func (ld *Loader) Catalog() *catalog.Catalog { return ld.catalog }

func (ld *Loader) caps() platform.Caps { return ld.catalog.Caps() }

// Load rebuilds the entry list of scene from scratch. Missing store nodes
// contribute nothing; Load never fails.
func (ld *Loader) Load(scene model.Scene, sel *selection.State) model.List {
	if !ld.catalog.Supported(scene) {
		ld.logger.Debug("scene unsupported", "scene", scene, "os", ld.caps())
		return nil
	}
	var list model.List
	switch scene {
	case model.SceneMenuAnalysis:
		list = append(list, ld.selectorEntry(scene, sel))
		list = append(list, ld.jumpEntries(sel)...)
		return list
	case model.SceneCommandStore:
		list = append(list, newItemEntry(scene, store.Parent(model.CommandStorePath), true))
		list = append(list, ld.loadStoreCommands()...)
		return list
	case model.SceneDragDrop:
		list = append(list, newItemEntry(scene, model.MenuPathFolder, true))
		list = append(list, ld.loadDragDrop()...)
		return list
	}

	basePath, ok := ld.catalog.ResolveBasePath(scene, sel)
	list = append(list, newItemEntry(scene, basePath, ok))
	if ok {
		list = append(list, ld.loadPath(scene, basePath)...)
	}
	if ld.caps().UWPMode {
		list = append(list, ld.Augment(scene, ld.snapshot())...)
	}
	if r, ok := sceneRules[scene]; ok {
		list = append(list, ld.ruleEntry(scene, r))
	}
	for _, p := range ld.catalog.ExtraBasePaths(scene, sel) {
		list = append(list, ld.loadPath(scene, p)...)
	}
	if scene.Refinable() {
		list.Insert(0, ld.selectorEntry(scene, sel))
		if ext, ok := sel.Extension(); ok && scene == model.SceneCustomExtension {
			list.Insert(1, ld.perceivedTypeEntry(ext))
		}
	}
	return list
}

// loadPath reads the commands and context-menu handlers of one base path.
func (ld *Loader) loadPath(scene model.Scene, basePath string) model.List {
	ld.takeOwnership(basePath, false)
	list := ld.LoadCommands(scene, basePath)
	return append(list, ld.LoadHandlers(scene, basePath, nil)...)
}

func (ld *Loader) takeOwnership(path string, tree bool) {
	if err := ld.store.TakeOwnership(path, tree); err != nil {
		ld.logger.Warn("take ownership", "path", path, "err", err)
		return
	}
	ld.logger.Debug("ownership requested", "path", path, "tree", tree)
}

func (ld *Loader) snapshot() *dict.Snapshot {
	snap, err := ld.dicts.Snapshot()
	if err != nil {
		ld.logger.Warn("dictionaries unavailable", "err", err)
		return nil
	}
	return snap
}

type defaultDictionaries struct{}

func (defaultDictionaries) Snapshot() (*dict.Snapshot, error) { return dict.Defaults() }

func newItemEntry(scene model.Scene, basePath string, ok bool) *model.Entry {
	return &model.Entry{
		Kind:    model.KindNew,
		Key:     store.SplitKey(basePath),
		Path:    basePath,
		Text:    "New item",
		Visible: ok,
		Enabled: ok,
		Scene:   scene,
	}
}

func (ld *Loader) selectorEntry(scene model.Scene, sel *selection.State) *model.Entry {
	path, _ := ld.catalog.ResolveBasePath(scene, sel)
	return &model.Entry{
		Kind:    model.KindSelector,
		Path:    path,
		Text:    sel.Label(scene),
		Visible: true,
		Enabled: true,
		Scene:   scene,
	}
}

func (ld *Loader) perceivedTypeEntry(ext string) *model.Entry {
	pt, _ := ld.catalog.PerceivedType(ext)
	path := model.ClassPath(model.NormalizeExtension(ext))
	return &model.Entry{
		Kind:    model.KindPerceivedType,
		Key:     store.SplitKey(path),
		Path:    path,
		Text:    "Set the perceived type of " + ext + ": " + model.PerceivedTypeLabel(pt),
		Visible: true,
		Enabled: true,
		Scene:   model.SceneCustomExtension,
	}
}

func (ld *Loader) jumpEntries(sel *selection.State) model.List {
	target, ok := sel.AnalysisTarget()
	if !ok || ld.analyzer == nil {
		return nil
	}
	var list model.List
	for _, c := range ld.analyzer.Analyze(target) {
		list = append(list, &model.Entry{
			Kind:      model.KindJump,
			Text:      JumpLabel(c),
			Visible:   true,
			Enabled:   true,
			Scene:     model.SceneMenuAnalysis,
			Candidate: &c,
		})
	}
	return list
}

// JumpLabel renders the breadcrumb of an analysis candidate, for example
// "[ Type ] ▶ [ Custom extension ] ▶ [ .txt ]".
func JumpLabel(c model.Candidate) string {
	section := "Home"
	switch c.Scene {
	case model.SceneLnkFile, model.SceneUwpLnk, model.SceneExeFile, model.SceneUnknownType,
		model.SceneCustomExtension, model.ScenePerceivedType, model.SceneDirectoryType:
		section = "Type"
	}
	parts := []string{section, c.Scene.Title()}
	switch c.Scene {
	case model.SceneCustomExtension:
		parts = append(parts, c.Extension)
	case model.ScenePerceivedType:
		parts = append(parts, model.PerceivedTypeLabel(c.PerceivedType))
	}
	return "[ " + strings.Join(parts, " ] ▶ [ ") + " ]"
}
