package model

import (
	"fmt"
	"strings"
)

// Scene identifies one context-menu injection point.
type Scene int

const (
	SceneFile Scene = iota
	SceneFolder
	SceneDirectory
	SceneBackground
	SceneDesktop
	SceneDrive
	SceneAllObjects
	SceneComputer
	SceneRecycleBin
	SceneLibrary
	SceneLnkFile
	SceneUwpLnk
	SceneExeFile
	SceneUnknownType
	SceneCustomExtension
	ScenePerceivedType
	SceneDirectoryType
	SceneCommandStore
	SceneDragDrop
	SceneCustomRegPath
	SceneMenuAnalysis

	sceneCount
)

// sceneNames are also the element names used by the UWP-mode dictionary.
var sceneNames = [sceneCount]string{
	SceneFile:            "File",
	SceneFolder:          "Folder",
	SceneDirectory:       "Directory",
	SceneBackground:      "Background",
	SceneDesktop:         "Desktop",
	SceneDrive:           "Drive",
	SceneAllObjects:      "AllObjects",
	SceneComputer:        "Computer",
	SceneRecycleBin:      "RecycleBin",
	SceneLibrary:         "Library",
	SceneLnkFile:         "LnkFile",
	SceneUwpLnk:          "UwpLnk",
	SceneExeFile:         "ExeFile",
	SceneUnknownType:     "UnknownType",
	SceneCustomExtension: "CustomExtension",
	ScenePerceivedType:   "PerceivedType",
	SceneDirectoryType:   "DirectoryType",
	SceneCommandStore:    "CommandStore",
	SceneDragDrop:        "DragDrop",
	SceneCustomRegPath:   "CustomRegPath",
	SceneMenuAnalysis:    "MenuAnalysis",
}

var sceneTitles = [sceneCount]string{
	SceneFile:            "File",
	SceneFolder:          "Folder",
	SceneDirectory:       "Directory",
	SceneBackground:      "Directory background",
	SceneDesktop:         "Desktop background",
	SceneDrive:           "Drive",
	SceneAllObjects:      "All objects",
	SceneComputer:        "This PC",
	SceneRecycleBin:      "Recycle bin",
	SceneLibrary:         "Library",
	SceneLnkFile:         "Shortcut (.lnk)",
	SceneUwpLnk:          "UWP shortcut",
	SceneExeFile:         "Executable (.exe)",
	SceneUnknownType:     "Unknown type",
	SceneCustomExtension: "Custom extension",
	ScenePerceivedType:   "Perceived type",
	SceneDirectoryType:   "Directory type",
	SceneCommandStore:    "Command store",
	SceneDragDrop:        "Drag and drop",
	SceneCustomRegPath:   "Custom registry path",
	SceneMenuAnalysis:    "Menu analysis",
}

// AllScenes lists every scene in declaration order.
var AllScenes = func() []Scene {
	s := make([]Scene, sceneCount)
	for i := range s {
		s[i] = Scene(i)
	}
	return s
}()

func (s Scene) String() string {
	if s < 0 || s >= sceneCount {
		return fmt.Sprintf("Scene(%d)", int(s))
	}
	return sceneNames[s]
}

// Title is the human-readable scene name.
func (s Scene) Title() string {
	if s < 0 || s >= sceneCount {
		return s.String()
	}
	return sceneTitles[s]
}

// Refinable reports whether the scene depends on a user selection.
func (s Scene) Refinable() bool {
	switch s {
	case SceneCustomExtension, ScenePerceivedType, SceneDirectoryType, SceneCustomRegPath, SceneMenuAnalysis:
		return true
	}
	return false
}

// ParseScene accepts a scene name case-insensitively.
func ParseScene(name string) (Scene, error) {
	for i, n := range sceneNames {
		if strings.EqualFold(n, name) {
			return Scene(i), nil
		}
	}
	return 0, fmt.Errorf("unknown scene %q", name)
}

func (s Scene) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Scene) UnmarshalText(b []byte) error {
	v, err := ParseScene(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
