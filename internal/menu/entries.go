package menu

import (
	"strings"

	"github.com/google/uuid"

	"shellmenu/internal/dict"
	"shellmenu/internal/model"
	"shellmenu/internal/store"
)

// Values read from command nodes.
const (
	valueMUIVerb        = "MUIVerb"
	valueLegacyDisable  = "LegacyDisable"
	valueProgrammatic   = "ProgrammaticAccessOnly"
	valueExtended       = "Extended"
	valueExplorerCmdHdl = "ExplorerCommandHandler"
)

// Handler-kind roots under a ShellEx node. The first root of each pair holds
// enabled registrations, the second the ones the user switched off.
var (
	ContextMenuHandlerRoots = [2]string{"ContextMenuHandlers", "-ContextMenuHandlers"}
	DragDropHandlerRoots    = [2]string{"DragDropHandlers", "-DragDropHandlers"}
)

// HandlerRoots returns the handler-kind roots scanned for scene.
func HandlerRoots(scene model.Scene) [2]string {
	if scene == model.SceneDragDrop {
		return DragDropHandlerRoots
	}
	return ContextMenuHandlerRoots
}

// LoadCommands returns one entry per child of basePath's shell node, in
// store order.
func (ld *Loader) LoadCommands(scene model.Scene, basePath string) model.List {
	shellPath := model.ShellPath(basePath)
	names, err := ld.store.SubKeyNames(shellPath)
	if err != nil {
		return nil
	}
	ld.takeOwnership(shellPath, true)
	list := make(model.List, 0, len(names))
	for _, name := range names {
		list = append(list, ld.commandEntry(scene, model.KindCommand, store.Join(shellPath, name)))
	}
	return list
}

func (ld *Loader) commandEntry(scene model.Scene, kind model.Kind, path string) *model.Entry {
	key := store.SplitKey(path)
	e := &model.Entry{
		Kind:    kind,
		Key:     key,
		Path:    path,
		Text:    ld.commandText(path, key.Name),
		Visible: true,
		Scene:   scene,
	}
	if v, ok := ld.store.Value(store.Join(path, model.CommandKey), ""); ok {
		e.Command = v.Text()
	}
	_, disabled := ld.store.Value(path, valueLegacyDisable)
	_, programmatic := ld.store.Value(path, valueProgrammatic)
	e.Enabled = !disabled && !programmatic
	_, e.OnlyWithShift = ld.store.Value(path, valueExtended)
	if v, ok := ld.store.Value(path, valueExplorerCmdHdl); ok {
		if id, err := uuid.Parse(v.Text()); err == nil {
			e.GUID = id
		}
	}
	return e
}

// commandText prefers MUIVerb, then the default value, then the node name.
// Indirect resource strings ("@shell32.dll,-8506") cannot be resolved here
// and are skipped.
func (ld *Loader) commandText(path, name string) string {
	for _, valueName := range []string{valueMUIVerb, ""} {
		v, ok := ld.store.Value(path, valueName)
		if !ok {
			continue
		}
		if t := v.Text(); t != "" && !strings.HasPrefix(t, "@") {
			return t
		}
	}
	return name
}

// handlerNode is one physical handler registration.
type handlerNode struct {
	key     store.Key
	guid    uuid.UUID
	enabled bool
}

// handlerNodes lists the registrations under every handler-kind root of
// shellExPath, enabled roots first. Nodes whose GUID cannot be determined
// are dropped.
func (ld *Loader) handlerNodes(shellExPath string, roots [2]string) []handlerNode {
	var nodes []handlerNode
	for i, root := range roots {
		rootPath := store.Join(shellExPath, root)
		names, err := ld.store.SubKeyNames(rootPath)
		if err != nil {
			continue
		}
		for _, name := range names {
			path := store.Join(rootPath, name)
			id, ok := ld.handlerGUID(path, name)
			if !ok {
				ld.logger.Debug("handler without guid", "path", path)
				continue
			}
			nodes = append(nodes, handlerNode{key: store.SplitKey(path), guid: id, enabled: i == 0})
		}
	}
	return nodes
}

// handlerGUID reads the CLSID of a handler node: the node name when it is a
// GUID, otherwise its default value.
func (ld *Loader) handlerGUID(path, name string) (uuid.UUID, bool) {
	if id, err := uuid.Parse(name); err == nil {
		return id, true
	}
	v, ok := ld.store.Value(path, "")
	if !ok {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(strings.TrimSpace(v.Text()))
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

// LoadHandlers returns one entry per distinct handler name registered under
// basePath's ShellEx node. A name registered under both the enabled and the
// disabled root is reported once, from the first root that holds it. When
// group is non-nil every entry becomes a member of it.
func (ld *Loader) LoadHandlers(scene model.Scene, basePath string, group *model.Group) model.List {
	shellExPath := model.ShellExPath(basePath)
	if !ld.store.KeyExists(shellExPath) {
		return nil
	}
	ld.takeOwnership(shellExPath, true)
	snap := ld.snapshot()

	var list model.List
	var seen []store.Key
	for _, n := range ld.handlerNodes(shellExPath, HandlerRoots(scene)) {
		if containsName(seen, n.key) {
			ld.logger.Debug("duplicate handler dropped", "path", n.key.Path())
			continue
		}
		seen = append(seen, n.key)
		e := &model.Entry{
			Kind:    model.KindHandler,
			Key:     n.key,
			Path:    n.key.Path(),
			Text:    handlerText(snap, n),
			GUID:    n.guid,
			Visible: true,
			Enabled: n.enabled,
			Scene:   scene,
		}
		if group != nil {
			group.AddMember(e)
		}
		list = append(list, e)
	}
	return list
}

// Shadowed is a handler registration that LoadHandlers hides because an
// earlier root holds the same name.
type Shadowed struct {
	Kept    store.Key `json:"kept"`
	Dropped store.Key `json:"dropped"`
}

// ShadowedHandlers lists the registrations under basePath that lose to an
// earlier one of the same name.
func (ld *Loader) ShadowedHandlers(scene model.Scene, basePath string) []Shadowed {
	var out []Shadowed
	var seen []store.Key
	for _, n := range ld.handlerNodes(model.ShellExPath(basePath), HandlerRoots(scene)) {
		kept := false
		for _, s := range seen {
			if s.SameName(n.key) {
				out = append(out, Shadowed{Kept: s, Dropped: n.key})
				kept = true
				break
			}
		}
		if !kept {
			seen = append(seen, n.key)
		}
	}
	return out
}

func containsName(keys []store.Key, k store.Key) bool {
	for _, s := range keys {
		if s.SameName(k) {
			return true
		}
	}
	return false
}

func handlerText(snap *dict.Snapshot, n handlerNode) string {
	if t, ok := snap.Text(n.guid); ok {
		return t
	}
	if _, err := uuid.Parse(n.key.Name); err != nil {
		return n.key.Name
	}
	return dict.FormatGUID(n.guid)
}

// DefaultSystemStoreNames are the built-in CommandStore verbs the command
// store scene hides.
var DefaultSystemStoreNames = []string{
	"Windows.AddColumns",
	"Windows.Copy",
	"Windows.CopyAsPath",
	"Windows.Cut",
	"Windows.Delete",
	"Windows.NewFolder",
	"Windows.OpenNewWindow",
	"Windows.Paste",
	"Windows.Properties",
	"Windows.Rename",
	"Windows.Share",
	"Windows.ShowHiddenFiles",
}

func (ld *Loader) loadStoreCommands() model.List {
	names, err := ld.store.SubKeyNames(model.CommandStorePath)
	if err != nil {
		return nil
	}
	var list model.List
	for _, name := range names {
		if ld.isSystemStoreName(name) {
			continue
		}
		list = append(list, ld.commandEntry(model.SceneCommandStore, model.KindStoreCommand, store.Join(model.CommandStorePath, name)))
	}
	return list
}

func (ld *Loader) isSystemStoreName(name string) bool {
	for _, n := range ld.systemStoreNames {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
