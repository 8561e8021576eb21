package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"shellmenu/internal/catalog"
	"shellmenu/internal/dict"
	"shellmenu/internal/menu"
	"shellmenu/internal/model"
	"shellmenu/internal/platform"
	"shellmenu/internal/selection"
	"shellmenu/internal/store"
)

const fixture = `
keys:
  - path: 'HKEY_CLASSES_ROOT\*\shell\edit'
    values:
      MUIVerb: Edit with Notepad
      Extended:
  - path: 'HKEY_CLASSES_ROOT\*\shell\edit\command'
    values:
      "": notepad.exe "%1"
  - path: 'HKEY_CLASSES_ROOT\*\shell\old'
    values:
      LegacyDisable:
  - path: 'HKEY_CLASSES_ROOT\*\ShellEx\ContextMenuHandlers\7-Zip'
    values:
      "": '{23170F69-40C1-278A-1000-000100020000}'
  - path: 'HKEY_CLASSES_ROOT\*\ShellEx\-ContextMenuHandlers\7-Zip'
    values:
      "": '{23170F69-40C1-278A-1000-000100020000}'
`

type noDicts struct{}

func (noDicts) Snapshot() (*dict.Snapshot, error) { return &dict.Snapshot{}, nil }

func newLoader(t *testing.T, version string) *menu.Loader {
	t.Helper()
	s, err := store.LoadFixture(strings.NewReader(fixture))
	require.NoError(t, err)
	caps, err := platform.FromVersion(version)
	require.NoError(t, err)
	return menu.NewLoader(catalog.New(s, caps), menu.WithDictionaries(noDicts{}))
}

func TestCollectFileScene(t *testing.T) {
	res := Collect(newLoader(t, "10.0"), selection.New(), []model.Scene{model.SceneFile})
	require.Equal(t, model.Version, res.Version)
	require.Len(t, res.Scenes, 1)

	s := res.Scenes[0]
	require.True(t, s.Supported)
	require.Equal(t, model.MenuPathFile, s.BasePath)
	require.Equal(t, model.KindNew, s.Rows[0].Kind)
	require.Equal(t, "Edit with Notepad", s.Rows[1].Text)
	require.Equal(t, `notepad.exe "%1"`, s.Rows[1].Command)
	require.True(t, s.Rows[1].OnlyWithShift)
	require.False(t, s.Rows[2].Enabled)
	require.Equal(t, "{23170F69-40C1-278A-1000-000100020000}", s.Rows[3].GUID)
	require.Len(t, s.Shadowed, 1)
}

func TestCollectDefaultsToAllScenes(t *testing.T) {
	res := Collect(newLoader(t, "6.0"), selection.New(), nil)
	require.Len(t, res.Scenes, len(model.AllScenes))
	for _, s := range res.Scenes {
		if s.Scene == model.SceneDesktop {
			require.False(t, s.Supported)
			require.Empty(t, s.Rows)
		}
	}
}

func TestGenerate(t *testing.T) {
	res := Collect(newLoader(t, "10.0"), selection.New(), []model.Scene{model.SceneFile, model.SceneUwpLnk})
	out := Generate(res, false)
	require.Contains(t, out, "== File ==")
	require.Contains(t, out, "Edit with Notepad (shift)")
	require.Contains(t, out, "is hidden by")
	require.Contains(t, out, "3 items, 1 disabled, 1 shadowed registrations")
	require.NotContains(t, out, "notepad.exe")

	verbose := Generate(res, true)
	require.Contains(t, verbose, `command: notepad.exe "%1"`)
	require.Contains(t, verbose, "guid:")
}

func TestResultEncodesSceneNames(t *testing.T) {
	res := Collect(newLoader(t, "10.0"), selection.New(), []model.Scene{model.SceneFile})
	b, err := json.Marshal(res)
	require.NoError(t, err)
	require.Contains(t, string(b), `"scene":"File"`)
	require.Contains(t, string(b), `"kind":"command"`)
}
