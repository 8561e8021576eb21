package menu

import (
	"github.com/google/uuid"

	"shellmenu/internal/dict"
	"shellmenu/internal/model"
	"shellmenu/internal/store"
)

// BlockedHandlersPath lists shell extensions the shell refuses to load, one
// value per braced CLSID.
const BlockedHandlersPath = `HKEY_LOCAL_MACHINE\SOFTWARE\Microsoft\Windows\CurrentVersion\Shell Extensions\Blocked`

// Augment derives the UWP-mode entries of scene from snap. Each GUID is used
// at most once per call; GUIDs without a packaged name are skipped.
func (ld *Loader) Augment(scene model.Scene, snap *dict.Snapshot) model.List {
	var list model.List
	seen := map[uuid.UUID]bool{}
	for _, id := range snap.UWPGUIDs(scene.String()) {
		if seen[id] {
			continue
		}
		uwpName, ok := snap.UWPName(id)
		if !ok {
			ld.logger.Debug("uwp item without package name", "scene", scene, "guid", dict.FormatGUID(id))
			continue
		}
		seen[id] = true
		text, ok := snap.Text(id)
		if !ok {
			text = uwpName
		}
		_, blocked := ld.store.Value(BlockedHandlersPath, dict.FormatGUID(id))
		list = append(list, &model.Entry{
			Kind:    model.KindUWPMode,
			Key:     store.Key{Parent: BlockedHandlersPath, Name: dict.FormatGUID(id)},
			Path:    BlockedHandlersPath,
			Text:    text,
			Command: uwpName,
			GUID:    id,
			Visible: true,
			Enabled: !blocked,
			Scene:   scene,
		})
	}
	return list
}
