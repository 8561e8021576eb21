package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"shellmenu/internal/dict"
	"shellmenu/internal/model"
	"shellmenu/internal/store"
)

var (
	// ErrMalformedGUID rejects handler CLSIDs that do not parse.
	ErrMalformedGUID = errors.New("malformed guid")
	// ErrAlreadyAdded rejects a second registration of the same item.
	ErrAlreadyAdded = errors.New("item has already been added")
	// ErrNoBasePath rejects additions to a scene that resolved to nothing.
	ErrNoBasePath = errors.New("scene has no base path")
	// ErrInvalidName rejects empty or separator-bearing node names.
	ErrInvalidName = errors.New("invalid item name")
	// ErrWrongKind rejects a mutation that does not apply to the entry.
	ErrWrongKind = errors.New("operation does not apply to this entry")
	// ErrShadowedRegistration rejects moving a handler onto a same-named
	// registration in the other root.
	ErrShadowedRegistration = errors.New("a registration with the same name exists in the destination root")
)

func requireKind(e *model.Entry, kinds ...model.Kind) error {
	for _, k := range kinds {
		if e.Kind == k {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrWrongKind, e.Kind)
}

// SetCommandEnabled shows or hides a command in the shell's menu.
func (ld *Loader) SetCommandEnabled(e *model.Entry, enabled bool) error {
	if err := requireKind(e, model.KindCommand, model.KindStoreCommand); err != nil {
		return err
	}
	ld.takeOwnership(e.Path, false)
	var err error
	if enabled {
		err = ld.store.DeleteValue(e.Path, valueLegacyDisable)
	} else {
		err = ld.store.SetValue(e.Path, valueLegacyDisable, store.StringValue(""))
	}
	if err != nil {
		return fmt.Errorf("set %s enabled: %w", e.Path, err)
	}
	e.Enabled = enabled
	return nil
}

// SetCommandShiftOnly restricts a command to the extended (shift) menu.
func (ld *Loader) SetCommandShiftOnly(e *model.Entry, shiftOnly bool) error {
	if err := requireKind(e, model.KindCommand, model.KindStoreCommand); err != nil {
		return err
	}
	ld.takeOwnership(e.Path, false)
	var err error
	if shiftOnly {
		err = ld.store.SetValue(e.Path, valueExtended, store.StringValue(""))
	} else {
		err = ld.store.DeleteValue(e.Path, valueExtended)
	}
	if err != nil {
		return fmt.Errorf("set %s shift only: %w", e.Path, err)
	}
	e.OnlyWithShift = shiftOnly
	return nil
}

// SetHandlerEnabled moves a handler registration between the enabled and
// disabled handler-kind roots. The entry's key follows the node.
func (ld *Loader) SetHandlerEnabled(e *model.Entry, enabled bool) error {
	if err := requireKind(e, model.KindHandler); err != nil {
		return err
	}
	if e.Enabled == enabled {
		return nil
	}
	roots := HandlerRoots(e.Scene)
	root := roots[1]
	if enabled {
		root = roots[0]
	}
	shellExPath := store.Parent(e.Key.Parent)
	dst := store.Join(shellExPath, root, e.Key.Name)
	if ld.store.KeyExists(dst) {
		ld.logger.Warn("handler move refused", "src", e.Path, "dst", dst)
		return fmt.Errorf("move handler %s: %w", e.Path, ErrShadowedRegistration)
	}
	ld.takeOwnership(shellExPath, true)
	if err := store.MoveTree(ld.store, e.Path, dst); err != nil {
		return fmt.Errorf("move handler %s: %w", e.Path, err)
	}
	e.Key = store.SplitKey(dst)
	e.Path = dst
	e.Enabled = enabled
	return nil
}

// SetRuleVisible writes the policy value of a rule entry.
func (ld *Loader) SetRuleVisible(e *model.Entry, visible bool) error {
	if err := requireKind(e, model.KindRule); err != nil {
		return err
	}
	r := e.Rule
	var err error
	if visible {
		err = ld.store.DeleteValue(r.Path, r.ValueName)
	} else {
		err = ld.store.SetValue(r.Path, r.ValueName, store.DWordValue(1))
	}
	if err != nil {
		return fmt.Errorf("set rule %s: %w", r.Name, err)
	}
	e.Enabled = visible
	return nil
}

// SetUWPModeEnabled blocks or unblocks a packaged handler.
func (ld *Loader) SetUWPModeEnabled(e *model.Entry, enabled bool) error {
	if err := requireKind(e, model.KindUWPMode); err != nil {
		return err
	}
	name := dict.FormatGUID(e.GUID)
	var err error
	if enabled {
		err = ld.store.DeleteValue(BlockedHandlersPath, name)
	} else {
		err = ld.store.SetValue(BlockedHandlersPath, name, store.StringValue(""))
	}
	if err != nil {
		return fmt.Errorf("block %s: %w", name, err)
	}
	e.Enabled = enabled
	return nil
}

// SetPerceivedType registers token as the perceived type of ext. The empty
// token removes the registration.
func (ld *Loader) SetPerceivedType(ext, token string) error {
	i := model.PerceivedTypeIndex(token)
	if i < 0 {
		return fmt.Errorf("unknown perceived type %q", token)
	}
	path := model.ClassPath(model.NormalizeExtension(ext))
	if i == 0 {
		return ld.store.DeleteValue(path, model.PerceivedTypeValue)
	}
	return ld.store.SetValue(path, model.PerceivedTypeValue, store.StringValue(model.PerceivedTypes[i]))
}

// AddCommand creates a command under basePath's shell node and inserts its
// entry after the new-item row of list.
func (ld *Loader) AddCommand(list *model.List, scene model.Scene, basePath, name, text, command string) (*model.Entry, error) {
	if basePath == "" {
		return nil, ErrNoBasePath
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, `\`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	kind := model.KindCommand
	shellPath := model.ShellPath(basePath)
	if scene == model.SceneCommandStore {
		kind = model.KindStoreCommand
		shellPath = model.CommandStorePath
	}
	path := store.Join(shellPath, name)
	if ld.store.KeyExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAdded, path)
	}
	ld.takeOwnership(shellPath, true)
	if text != "" {
		if err := ld.store.SetValue(path, valueMUIVerb, store.StringValue(text)); err != nil {
			return nil, err
		}
	}
	if err := ld.store.SetValue(store.Join(path, model.CommandKey), "", store.StringValue(command)); err != nil {
		return nil, err
	}
	e := ld.commandEntry(scene, kind, path)
	list.Insert(newItemIndex(*list)+1, e)
	return e, nil
}

// AddHandler registers the CLSID guidText under basePath's ShellEx node. In
// the drag-drop scene basePath selects the group and the entry joins it,
// hidden when the group is folded; elsewhere it follows the new-item row.
// Nothing is written when the GUID is malformed or already registered.
func (ld *Loader) AddHandler(list *model.List, scene model.Scene, basePath, guidText string) (*model.Entry, error) {
	if basePath == "" {
		return nil, ErrNoBasePath
	}
	id, err := uuid.Parse(strings.TrimSpace(guidText))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedGUID, guidText)
	}
	shellExPath := model.ShellExPath(basePath)
	roots := HandlerRoots(scene)
	for _, n := range ld.handlerNodes(shellExPath, roots) {
		if n.guid == id {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyAdded, dict.FormatGUID(id))
		}
	}

	path := store.Join(shellExPath, roots[0], dict.FormatGUID(id))
	ld.takeOwnership(shellExPath, true)
	if err := ld.store.SetValue(path, "", store.StringValue(dict.FormatGUID(id))); err != nil {
		return nil, fmt.Errorf("register %s: %w", path, err)
	}
	e := &model.Entry{
		Kind:    model.KindHandler,
		Key:     store.SplitKey(path),
		Path:    path,
		Text:    handlerText(ld.snapshot(), handlerNode{key: store.SplitKey(path), guid: id}),
		GUID:    id,
		Visible: true,
		Enabled: true,
		Scene:   scene,
	}

	if scene != model.SceneDragDrop {
		list.Insert(newItemIndex(*list)+1, e)
		return e, nil
	}
	g := GroupFor(*list, basePath)
	if g == nil {
		g = BuildDragDropGroup(basePath)
		g.Header.Scene = scene
		*list = append(*list, g.Header)
	}
	g.AddMember(e)
	list.Insert(list.IndexOf(func(x *model.Entry) bool { return x == g.Header })+1, e)
	return e, nil
}

// Delete removes the node behind e and drops e from list.
func (ld *Loader) Delete(list *model.List, e *model.Entry) error {
	if err := requireKind(e, model.KindCommand, model.KindStoreCommand, model.KindHandler); err != nil {
		return err
	}
	ld.takeOwnership(e.Path, true)
	if err := ld.store.DeleteKey(e.Path); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return fmt.Errorf("delete %s: %w", e.Path, err)
	}
	if i := list.IndexOf(func(x *model.Entry) bool { return x == e }); i >= 0 {
		*list = append((*list)[:i], (*list)[i+1:]...)
	}
	if e.Group != nil {
		e.Group.RemoveMember(e)
	}
	return nil
}

func newItemIndex(list model.List) int {
	return list.IndexOf(func(e *model.Entry) bool { return e.Kind == model.KindNew })
}
