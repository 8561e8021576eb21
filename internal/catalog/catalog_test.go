package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shellmenu/internal/model"
	"shellmenu/internal/platform"
	"shellmenu/internal/selection"
	"shellmenu/internal/store"
)

func mustCaps(t *testing.T, v string) platform.Caps {
	t.Helper()
	caps, err := platform.FromVersion(v)
	require.NoError(t, err)
	return caps
}

func TestFixedScenesResolveToLiteralPaths(t *testing.T) {
	c := New(store.NewMemStore(), platform.All())
	sel := selection.New()

	tests := map[model.Scene]string{
		model.SceneFile:        `HKEY_CLASSES_ROOT\*`,
		model.SceneFolder:      `HKEY_CLASSES_ROOT\Folder`,
		model.SceneDirectory:   `HKEY_CLASSES_ROOT\Directory`,
		model.SceneBackground:  `HKEY_CLASSES_ROOT\Directory\Background`,
		model.SceneDesktop:     `HKEY_CLASSES_ROOT\DesktopBackground`,
		model.SceneDrive:       `HKEY_CLASSES_ROOT\Drive`,
		model.SceneAllObjects:  `HKEY_CLASSES_ROOT\AllFilesystemObjects`,
		model.SceneComputer:    `HKEY_CLASSES_ROOT\CLSID\{20D04FE0-3AEA-1069-A2D8-08002B30309D}`,
		model.SceneRecycleBin:  `HKEY_CLASSES_ROOT\CLSID\{645FF040-5081-101B-9F08-00AA002F954E}`,
		model.SceneLibrary:     `HKEY_CLASSES_ROOT\LibraryFolder`,
		model.SceneUwpLnk:      `HKEY_CLASSES_ROOT\Launcher.ImmersiveApplication`,
		model.SceneExeFile:     `HKEY_CLASSES_ROOT\SystemFileAssociations\.exe`,
		model.SceneUnknownType: `HKEY_CLASSES_ROOT\Unknown`,
	}
	for scene, want := range tests {
		t.Run(scene.String(), func(t *testing.T) {
			got, ok := c.ResolveBasePath(scene, sel)
			require.True(t, ok)
			require.Equal(t, want, got)
		})
	}
}

func TestPlatformGatedScenes(t *testing.T) {
	sel := selection.New()
	vista := New(store.NewMemStore(), mustCaps(t, "6.0"))
	win7 := New(store.NewMemStore(), mustCaps(t, "6.1"))

	for _, scene := range []model.Scene{model.SceneDesktop, model.SceneLibrary} {
		_, ok := vista.ResolveBasePath(scene, sel)
		require.False(t, ok, scene.String())
		_, ok = win7.ResolveBasePath(scene, sel)
		require.True(t, ok, scene.String())
	}
	require.Empty(t, vista.ExtraBasePaths(model.SceneLibrary, sel))

	_, ok := win7.ResolveBasePath(model.SceneUwpLnk, sel)
	require.False(t, ok)
	_, ok = New(store.NewMemStore(), mustCaps(t, "6.2")).ResolveBasePath(model.SceneUwpLnk, sel)
	require.True(t, ok)
}

func TestEverySceneIsHandled(t *testing.T) {
	c := New(store.NewMemStore(), platform.All())
	sel := selection.New()
	for _, scene := range model.AllScenes {
		require.NotPanics(t, func() { c.ResolveBasePath(scene, sel) }, scene.String())
	}
}

func TestAlternateProceduresHaveNoBasePath(t *testing.T) {
	c := New(store.NewMemStore(), platform.All())
	for _, scene := range []model.Scene{model.SceneCommandStore, model.SceneDragDrop, model.SceneMenuAnalysis} {
		_, ok := c.ResolveBasePath(scene, selection.New())
		require.False(t, ok)
	}
}

func TestOpenVerbIndirection(t *testing.T) {
	s := store.NewMemStore()
	require.NoError(t, s.SetValue(`HKEY_CLASSES_ROOT\.lnk`, "", store.StringValue("lnkfile")))
	require.NoError(t, s.SetValue(`HKEY_CLASSES_ROOT\.exe`, "", store.StringValue("exefile")))
	require.NoError(t, s.SetValue(`HKEY_CLASSES_ROOT\.txt`, "", store.StringValue("txtfile")))
	require.NoError(t, s.SetValue(
		`HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Explorer\FileExts\.txt\UserChoice`,
		"ProgId", store.StringValue("Applications\\notepad++.exe")))
	c := New(s, platform.All())
	sel := selection.New()

	got, ok := c.ResolveBasePath(model.SceneLnkFile, sel)
	require.True(t, ok)
	require.Equal(t, `HKEY_CLASSES_ROOT\lnkfile`, got)

	require.Equal(t, []string{`HKEY_CLASSES_ROOT\exefile`}, c.ExtraBasePaths(model.SceneExeFile, sel))

	verb, ok := c.OpenVerb(".txt")
	require.True(t, ok)
	require.Equal(t, `Applications\notepad++.exe`, verb)

	_, ok = c.OpenVerb(".nothing")
	require.False(t, ok)
}

func TestLnkFileWithoutOpenVerbIsAbsent(t *testing.T) {
	c := New(store.NewMemStore(), platform.All())
	_, ok := c.ResolveBasePath(model.SceneLnkFile, selection.New())
	require.False(t, ok)
}

func TestCustomExtension(t *testing.T) {
	s := store.NewMemStore()
	require.NoError(t, s.SetValue(`HKEY_CLASSES_ROOT\.ini`, "", store.StringValue("inifile")))
	require.NoError(t, s.SetValue(`HKEY_CLASSES_ROOT\.lnk`, "", store.StringValue("lnkfile")))
	c := New(s, platform.All())
	sel := selection.New()

	_, ok := c.ResolveBasePath(model.SceneCustomExtension, sel)
	require.False(t, ok)

	sel.SetExtension(".ini")
	got, ok := c.ResolveBasePath(model.SceneCustomExtension, sel)
	require.True(t, ok)
	require.Equal(t, `HKEY_CLASSES_ROOT\SystemFileAssociations\.ini`, got)
	require.Equal(t, []string{`HKEY_CLASSES_ROOT\inifile`}, c.ExtraBasePaths(model.SceneCustomExtension, sel))

	sel.SetExtension(".LNK")
	got, ok = c.ResolveBasePath(model.SceneCustomExtension, sel)
	require.True(t, ok)
	require.Equal(t, `HKEY_CLASSES_ROOT\lnkfile`, got)
	require.Empty(t, c.ExtraBasePaths(model.SceneCustomExtension, sel))
}

func TestTypeScenes(t *testing.T) {
	c := New(store.NewMemStore(), platform.All())
	sel := selection.New()

	_, ok := c.ResolveBasePath(model.SceneDirectoryType, sel)
	require.False(t, ok)
	_, err := sel.SetDirectoryType("Image")
	require.NoError(t, err)
	got, _ := c.ResolveBasePath(model.SceneDirectoryType, sel)
	require.Equal(t, `HKEY_CLASSES_ROOT\SystemFileAssociations\Directory.Image`, got)

	_, err = sel.SetPerceivedType("Text")
	require.NoError(t, err)
	got, _ = c.ResolveBasePath(model.ScenePerceivedType, sel)
	require.Equal(t, `HKEY_CLASSES_ROOT\SystemFileAssociations\Text`, got)
}

func TestCustomPathIsVerbatim(t *testing.T) {
	c := New(store.NewMemStore(), platform.All())
	sel := selection.New()
	sel.SetCustomPath(`not a real path`)
	got, ok := c.ResolveBasePath(model.SceneCustomRegPath, sel)
	require.True(t, ok)
	require.Equal(t, `not a real path`, got)
}

func TestPerceivedType(t *testing.T) {
	s := store.NewMemStore()
	require.NoError(t, s.SetValue(`HKEY_CLASSES_ROOT\.txt`, "PerceivedType", store.StringValue("text")))
	require.NoError(t, s.SetValue(`HKEY_CLASSES_ROOT\.`, "PerceivedType", store.StringValue("document")))
	c := New(s, platform.All())

	pt, ok := c.PerceivedType(".txt")
	require.True(t, ok)
	require.Equal(t, "text", pt)

	pt, ok = c.PerceivedType("")
	require.True(t, ok)
	require.Equal(t, "document", pt)

	_, ok = c.PerceivedType(".bin")
	require.False(t, ok)
}

func TestSupported(t *testing.T) {
	vista := New(store.NewMemStore(), mustCaps(t, "6.0"))
	require.False(t, vista.Supported(model.SceneCommandStore))
	require.False(t, vista.Supported(model.SceneDesktop))
	require.False(t, vista.Supported(model.SceneUwpLnk))
	require.True(t, vista.Supported(model.SceneFile))
	require.True(t, New(store.NewMemStore(), platform.All()).Supported(model.SceneCommandStore))
}
