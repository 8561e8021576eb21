package dict

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var terminal = uuid.MustParse("{9F156763-7844-4DC4-B2B1-901F640F5155}")

func TestParseUWPModeItems(t *testing.T) {
	doc := `<Data>
  <Directory><Item Guid="{9F156763-7844-4DC4-B2B1-901F640F5155}"/><Item Guid="bogus"/></Directory>
  <File/>
  <Directory><Item Guid="{0440049F-D1DC-4E46-B27B-98393D79486B}"/></Directory>
</Data>`
	items, err := ParseUWPModeItems(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, []string{
		"{9F156763-7844-4DC4-B2B1-901F640F5155}",
		"bogus",
		"{0440049F-D1DC-4E46-B27B-98393D79486B}",
	}, items["Directory"])

	snap := &Snapshot{UWP: items}
	ids := snap.UWPGUIDs("Directory")
	require.Len(t, ids, 2)
	require.Equal(t, terminal, ids[0])
	require.Empty(t, snap.UWPGUIDs("File"))
	require.Empty(t, snap.UWPGUIDs("Drive"))
}

func TestParseUWPModeItemsRejectsGarbage(t *testing.T) {
	_, err := ParseUWPModeItems(strings.NewReader("<Data><Directory>"))
	require.Error(t, err)
}

func TestParseGUIDInfos(t *testing.T) {
	doc := `
["{9F156763-7844-4DC4-B2B1-901F640F5155}"]
text = "Terminal"
uwp_name = "Microsoft.WindowsTerminal_8wekyb3d8bbwe"
`
	infos, err := ParseGUIDInfos(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, Info{Text: "Terminal", UWPName: "Microsoft.WindowsTerminal_8wekyb3d8bbwe"}, infos[terminal])

	_, err = ParseGUIDInfos(strings.NewReader("[not-a-guid]\ntext = \"x\"\n"))
	require.Error(t, err)
}

func TestDefaults(t *testing.T) {
	snap, err := Defaults()
	require.NoError(t, err)
	require.Contains(t, snap.UWPGUIDs("Directory"), terminal)
	name, ok := snap.UWPName(terminal)
	require.True(t, ok)
	require.Equal(t, "Microsoft.WindowsTerminal_8wekyb3d8bbwe", name)
}

func TestMerge(t *testing.T) {
	infos := GUIDInfos{terminal: {Text: "Old", UWPName: "Pkg"}}
	infos.Merge(GUIDInfos{terminal: {Text: "New"}})
	require.Equal(t, Info{Text: "New", UWPName: "Pkg"}, infos[terminal])
}

func TestFormatGUID(t *testing.T) {
	require.Equal(t, "{9F156763-7844-4DC4-B2B1-901F640F5155}", FormatGUID(terminal))
}

func TestSourcePrecedence(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := Files{
		UserUWPModeItems: "/cfg/user/uwp.xml",
		WebUWPModeItems:  "/cfg/web/uwp.xml",
		UserGUIDInfos:    "/cfg/user/guids.toml",
		WebGUIDInfos:     "/cfg/web/guids.toml",
	}
	require.NoError(t, afero.WriteFile(fsys, files.WebUWPModeItems,
		[]byte(`<Data><Drive><Item Guid="{9F156763-7844-4DC4-B2B1-901F640F5155}"/></Drive></Data>`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, files.WebGUIDInfos,
		[]byte("[\"{9F156763-7844-4DC4-B2B1-901F640F5155}\"]\ntext = \"Web\"\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, files.UserGUIDInfos,
		[]byte("[\"{9F156763-7844-4DC4-B2B1-901F640F5155}\"]\ntext = \"User\"\n"), 0o644))

	src := NewSource(fsys, files, time.Minute, nil)
	snap, err := src.Snapshot()
	require.NoError(t, err)

	// Web document replaced the embedded one entirely.
	require.Equal(t, []uuid.UUID{terminal}, snap.UWPGUIDs("Drive"))
	require.Empty(t, snap.UWPGUIDs("Directory"))

	text, _ := snap.Text(terminal)
	require.Equal(t, "User", text)
	name, _ := snap.UWPName(terminal)
	require.Equal(t, "Microsoft.WindowsTerminal_8wekyb3d8bbwe", name, "embedded uwp name survives the merge")

	require.NoError(t, afero.WriteFile(fsys, files.UserUWPModeItems,
		[]byte(`<Data><File><Item Guid="{9F156763-7844-4DC4-B2B1-901F640F5155}"/></File></Data>`), 0o644))
	cached, err := src.Snapshot()
	require.NoError(t, err)
	require.Same(t, snap, cached)

	src.Invalidate()
	fresh, err := src.Snapshot()
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{terminal}, fresh.UWPGUIDs("File"))
	require.Empty(t, fresh.UWPGUIDs("Drive"))
}

func TestSourceSkipsBrokenOverride(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := Files{UserUWPModeItems: "/u.xml"}
	require.NoError(t, afero.WriteFile(fsys, files.UserUWPModeItems, []byte("<Data>"), 0o644))

	snap, err := NewSource(fsys, files, 0, nil).Snapshot()
	require.NoError(t, err)
	require.Contains(t, snap.UWPGUIDs("Directory"), terminal)
}

func TestWatcherInvalidatesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uwp.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<Data><Drive/></Data>`), 0o644))

	src := NewSource(afero.NewOsFs(), Files{UserUWPModeItems: path}, time.Hour, nil)
	first, err := src.Snapshot()
	require.NoError(t, err)
	require.Empty(t, first.UWPGUIDs("File"))

	w, err := Watch(src)
	require.NoError(t, err)
	defer func() { require.NoError(t, w.Stop()) }()

	require.NoError(t, os.WriteFile(path,
		[]byte(`<Data><File><Item Guid="{9F156763-7844-4DC4-B2B1-901F640F5155}"/></File></Data>`), 0o644))

	require.Eventually(t, func() bool {
		snap, err := src.Snapshot()
		return err == nil && len(snap.UWPGUIDs("File")) == 1
	}, 5*time.Second, 20*time.Millisecond)
}
