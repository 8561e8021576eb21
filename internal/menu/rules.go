package menu

import (
	"shellmenu/internal/model"
	"shellmenu/internal/store"
)

// Policy rules that hide built-in menu items. A rule's item is shown while
// its DWORD is absent or zero.
var (
	RuleCustomFolder = model.Rule{
		Name:      "CustomFolder",
		Text:      "Customize this folder",
		Path:      model.ExplorerPolicyPath,
		ValueName: "NoCustomizeThisFolder",
	}
	RuleNetworkDrive = model.Rule{
		Name:      "NetworkDrive",
		Text:      "Map / disconnect network drive",
		Path:      model.ExplorerPolicyPath,
		ValueName: "NoNetConnectDisconnect",
	}
	RuleRecycleBinProperties = model.Rule{
		Name:      "RecycleBinProperties",
		Text:      "Recycle bin properties",
		Path:      model.ExplorerPolicyPath,
		ValueName: "NoPropertiesRecycleBin",
	}
)

var sceneRules = map[model.Scene]model.Rule{
	model.SceneBackground: RuleCustomFolder,
	model.SceneComputer:   RuleNetworkDrive,
	model.SceneRecycleBin: RuleRecycleBinProperties,
}

// RuleVisible reports whether r's item is currently shown.
func RuleVisible(s store.Store, r model.Rule) bool {
	v, ok := s.Value(r.Path, r.ValueName)
	return !ok || v.Num == 0
}

func (ld *Loader) ruleEntry(scene model.Scene, r model.Rule) *model.Entry {
	return &model.Entry{
		Kind:    model.KindRule,
		Key:     store.Key{Parent: r.Path, Name: r.ValueName},
		Path:    r.Path,
		Text:    r.Text,
		Visible: true,
		Enabled: RuleVisible(ld.store, r),
		Scene:   scene,
		Rule:    &r,
	}
}
