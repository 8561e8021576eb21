package menu

import (
	"shellmenu/internal/model"
	"shellmenu/internal/store"
)

// DragDropBasePaths are the base paths whose drag-drop handlers share the
// drag-drop scene, in display order.
var DragDropBasePaths = []string{
	model.MenuPathFolder,
	model.MenuPathDirectory,
	model.MenuPathDrive,
	model.MenuPathAllObjects,
}

var dragDropGroupText = map[string]string{
	model.MenuPathFolder:     model.SceneFolder.Title(),
	model.MenuPathDirectory:  model.SceneDirectory.Title(),
	model.MenuPathDrive:      model.SceneDrive.Title(),
	model.MenuPathAllObjects: model.SceneAllObjects.Title(),
}

// BuildDragDropGroup returns the group of basePath's drag-drop handlers,
// labelled after the base path.
func BuildDragDropGroup(basePath string) *model.Group {
	text, ok := dragDropGroupText[basePath]
	if !ok {
		text = store.SplitKey(basePath).Name
	}
	return model.NewGroup(model.ShellExPath(basePath), text)
}

// loadDragDrop loads each drag-drop base path under its own group header,
// then folds every group. A base path without a ShellEx node contributes
// neither a header nor members.
func (ld *Loader) loadDragDrop() model.List {
	var list model.List
	var groups []*model.Group
	for _, basePath := range DragDropBasePaths {
		ld.takeOwnership(basePath, false)
		if !ld.store.KeyExists(model.ShellExPath(basePath)) {
			continue
		}
		g := BuildDragDropGroup(basePath)
		members := ld.LoadHandlers(model.SceneDragDrop, basePath, g)
		g.Header.Scene = model.SceneDragDrop
		list = append(list, g.Header)
		list = append(list, members...)
		groups = append(groups, g)
	}
	for _, g := range groups {
		g.Fold(true)
	}
	return list
}

// GroupFor returns the group of list whose target is the ShellEx node of
// basePath.
func GroupFor(list model.List, basePath string) *model.Group {
	target := model.ShellExPath(basePath)
	for _, g := range list.Groups() {
		if store.EqualPath(g.Target, target) {
			return g
		}
	}
	return nil
}
