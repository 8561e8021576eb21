package menu

import (
	"sync"

	"shellmenu/internal/model"
	"shellmenu/internal/selection"
)

// View is the entry list of one scene, kept current with the selection: a
// selection write that affects the scene reloads the list before the write
// returns.
type View struct {
	loader *Loader
	sel    *selection.State

	mu       sync.Mutex
	scene    model.Scene
	list     model.List
	basePath string
	ok       bool
	loads    int
	unsub    func()
}

// NewView loads scene and binds it to sel.
func NewView(ld *Loader, sel *selection.State, scene model.Scene) *View {
	v := &View{loader: ld, sel: sel, scene: scene}
	v.Reload()
	v.unsub = sel.Subscribe(v.onChange)
	return v
}

func (v *View) onChange(ch selection.Change) {
	v.mu.Lock()
	affected := ch.Field.Scene() == v.scene
	v.mu.Unlock()
	if affected {
		v.Reload()
	}
}

// Reload rebuilds the list from the store.
func (v *View) Reload() {
	v.mu.Lock()
	scene := v.scene
	v.mu.Unlock()

	list := v.loader.Load(scene, v.sel)
	path, ok := v.loader.Catalog().ResolveBasePath(scene, v.sel)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.scene != scene {
		return
	}
	v.list = list
	v.basePath, v.ok = path, ok
	v.loads++
}

// SetScene switches the view to scene and loads it.
func (v *View) SetScene(scene model.Scene) {
	v.mu.Lock()
	v.scene = scene
	v.mu.Unlock()
	v.Reload()
}

// Scene is the scene shown.
func (v *View) Scene() model.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scene
}

// Entries returns the current list. Mutations through the loader may edit
// the returned slice in place via List.
func (v *View) Entries() model.List {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.list
}

// List gives mutation helpers access to the view's list.
func (v *View) List() *model.List {
	return &v.list
}

// BasePath is the base path the list was loaded from.
func (v *View) BasePath() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.basePath, v.ok
}

// Loads counts completed loads.
func (v *View) Loads() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loads
}

// Close unbinds the view from the selection.
func (v *View) Close() {
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
}
