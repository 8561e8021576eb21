package menu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"shellmenu/internal/catalog"
	"shellmenu/internal/model"
	"shellmenu/internal/platform"
	"shellmenu/internal/selection"
	"shellmenu/internal/store"
)

func TestAddHandlerRejectsMalformedGUID(t *testing.T) {
	ld, s := newFixtureLoader(t, platform.All())
	list := ld.Load(model.SceneFile, selection.New())
	before, _ := s.SubKeyNames(`HKEY_CLASSES_ROOT\*\ShellEx\ContextMenuHandlers`)

	_, err := ld.AddHandler(&list, model.SceneFile, model.MenuPathFile, "{not-a-guid}")
	require.ErrorIs(t, err, ErrMalformedGUID)

	after, _ := s.SubKeyNames(`HKEY_CLASSES_ROOT\*\ShellEx\ContextMenuHandlers`)
	require.Equal(t, before, after)
}

func TestAddHandlerRejectsDuplicate(t *testing.T) {
	ld, s := newFixtureLoader(t, platform.All())
	list := ld.Load(model.SceneFile, selection.New())
	n := len(list)

	// Registered only under the disabled root, still a duplicate.
	_, err := ld.AddHandler(&list, model.SceneFile, model.MenuPathFile, "09a47860-11b0-4da5-afa5-26d86198a780")
	require.ErrorIs(t, err, ErrAlreadyAdded)
	require.Len(t, list, n)
	require.False(t, s.KeyExists(`HKEY_CLASSES_ROOT\*\ShellEx\ContextMenuHandlers\{09A47860-11B0-4DA5-AFA5-26D86198A780}`))
}

func TestAddHandlerInsertsAfterNewItem(t *testing.T) {
	ld, s := newFixtureLoader(t, platform.All())
	list := ld.Load(model.SceneFile, selection.New())

	e, err := ld.AddHandler(&list, model.SceneFile, model.MenuPathFile, "{9F156763-7844-4DC4-B2B1-901F640F5155}")
	require.NoError(t, err)
	require.Same(t, e, list[1])
	require.True(t, e.Visible)

	v, ok := s.Value(`HKEY_CLASSES_ROOT\*\ShellEx\ContextMenuHandlers\{9F156763-7844-4DC4-B2B1-901F640F5155}`, "")
	require.True(t, ok)
	require.Equal(t, "{9F156763-7844-4DC4-B2B1-901F640F5155}", v.Text())
}

func TestAddHandlerToFoldedGroupStaysHidden(t *testing.T) {
	ld, s := newFixtureLoader(t, platform.All())
	list := ld.Load(model.SceneDragDrop, selection.New())
	g := GroupFor(list, model.MenuPathDrive)
	require.NotNil(t, g)
	require.True(t, g.Folded)

	e, err := ld.AddHandler(&list, model.SceneDragDrop, model.MenuPathDrive, "{23170F69-40C1-278A-1000-000100020000}")
	require.NoError(t, err)
	require.False(t, e.Visible)
	require.Same(t, g, e.Group)
	require.Contains(t, g.Members(), e)
	require.True(t, s.KeyExists(`HKEY_CLASSES_ROOT\Drive\ShellEx\DragDropHandlers\{23170F69-40C1-278A-1000-000100020000}`))

	i := list.IndexOf(func(x *model.Entry) bool { return x == g.Header })
	require.Same(t, e, list[i+1])

	g.Fold(false)
	require.True(t, e.Visible)
}

func TestAddHandlerCreatesMissingGroup(t *testing.T) {
	ld, _ := newFixtureLoader(t, platform.All())
	list := ld.Load(model.SceneDragDrop, selection.New())
	require.Nil(t, GroupFor(list, model.MenuPathAllObjects))

	e, err := ld.AddHandler(&list, model.SceneDragDrop, model.MenuPathAllObjects, "{23170F69-40C1-278A-1000-000100020000}")
	require.NoError(t, err)
	g := GroupFor(list, model.MenuPathAllObjects)
	require.NotNil(t, g)
	require.True(t, e.Visible)
	require.Same(t, e, list[len(list)-1])
}

func TestAddHandlerWithoutBasePath(t *testing.T) {
	ld, _ := newFixtureLoader(t, platform.All())
	var list model.List
	_, err := ld.AddHandler(&list, model.SceneCustomExtension, "", "{9F156763-7844-4DC4-B2B1-901F640F5155}")
	require.ErrorIs(t, err, ErrNoBasePath)
}

func TestAddCommand(t *testing.T) {
	ld, s := newFixtureLoader(t, platform.All())
	list := ld.Load(model.SceneFile, selection.New())

	e, err := ld.AddCommand(&list, model.SceneFile, model.MenuPathFile, "hash", "Compute hash", `hash.exe "%1"`)
	require.NoError(t, err)
	require.Same(t, e, list[1])
	require.Equal(t, "Compute hash", e.Text)
	require.Equal(t, `hash.exe "%1"`, e.Command)

	names, _ := s.SubKeyNames(`HKEY_CLASSES_ROOT\*\shell`)
	require.Equal(t, []string{"zeta", "alpha", "mid", "hash"}, names)

	_, err = ld.AddCommand(&list, model.SceneFile, model.MenuPathFile, "ZETA", "", "x")
	require.ErrorIs(t, err, ErrAlreadyAdded)
	_, err = ld.AddCommand(&list, model.SceneFile, model.MenuPathFile, `a\b`, "", "x")
	require.ErrorIs(t, err, ErrInvalidName)

	sc, err := ld.AddCommand(&list, model.SceneCommandStore, store.Parent(model.CommandStorePath), "Acme.Other", "", "other.exe")
	require.NoError(t, err)
	require.Equal(t, model.KindStoreCommand, sc.Kind)
	require.True(t, s.KeyExists(model.CommandStorePath+`\Acme.Other\command`))
}

func TestSetHandlerEnabledMovesNode(t *testing.T) {
	ld, s := newFixtureLoader(t, platform.All())
	list := ld.LoadHandlers(model.SceneFile, model.MenuPathFile, nil)
	defender := list[2]
	require.False(t, defender.Enabled)

	require.NoError(t, ld.SetHandlerEnabled(defender, true))
	require.True(t, defender.Enabled)
	require.Equal(t, `HKEY_CLASSES_ROOT\*\ShellEx\ContextMenuHandlers\Defender`, defender.Path)
	require.False(t, s.KeyExists(`HKEY_CLASSES_ROOT\*\ShellEx\-ContextMenuHandlers\Defender`))

	require.NoError(t, ld.SetHandlerEnabled(defender, false))
	require.Equal(t, `HKEY_CLASSES_ROOT\*\ShellEx\-ContextMenuHandlers\Defender`, defender.Path)
	v, _ := s.Value(defender.Path, "")
	require.Equal(t, "{09A47860-11B0-4DA5-AFA5-26D86198A780}", v.Text())
}

func TestSetHandlerEnabledKeepsShadowedRegistration(t *testing.T) {
	ld, s := newFixtureLoader(t, platform.All())
	list := ld.LoadHandlers(model.SceneFile, model.MenuPathFile, nil)
	sevenZipEntry := list[0]
	require.True(t, sevenZipEntry.Enabled)
	require.NoError(t, s.SetValue(`HKEY_CLASSES_ROOT\*\ShellEx\-ContextMenuHandlers\7-Zip`, "Note", store.StringValue("legacy")))

	err := ld.SetHandlerEnabled(sevenZipEntry, false)
	require.ErrorIs(t, err, ErrShadowedRegistration)
	require.True(t, sevenZipEntry.Enabled)
	require.Equal(t, `HKEY_CLASSES_ROOT\*\ShellEx\ContextMenuHandlers\7-Zip`, sevenZipEntry.Path)
	require.True(t, s.KeyExists(sevenZipEntry.Path))
	v, ok := s.Value(`HKEY_CLASSES_ROOT\*\ShellEx\-ContextMenuHandlers\7-Zip`, "Note")
	require.True(t, ok)
	require.Equal(t, "legacy", v.Text())
}

func TestCommandToggles(t *testing.T) {
	ld, s := newFixtureLoader(t, platform.All())
	list := ld.LoadCommands(model.SceneFile, model.MenuPathFile)
	alpha := list[1]

	require.NoError(t, ld.SetCommandEnabled(alpha, true))
	_, ok := s.Value(alpha.Path, "LegacyDisable")
	require.False(t, ok)

	require.NoError(t, ld.SetCommandShiftOnly(alpha, true))
	require.True(t, ld.LoadCommands(model.SceneFile, model.MenuPathFile)[1].OnlyWithShift)

	require.ErrorIs(t, ld.SetRuleVisible(alpha, true), ErrWrongKind)
}

func TestSetPerceivedTypeWritesCanonicalToken(t *testing.T) {
	ld, s := newFixtureLoader(t, platform.All())
	require.NoError(t, ld.SetPerceivedType(".ini", "document"))
	v, _ := s.Value(`HKEY_CLASSES_ROOT\.ini`, "PerceivedType")
	require.Equal(t, "Document", v.Text())

	require.NoError(t, ld.SetPerceivedType(".ini", ""))
	_, ok := s.Value(`HKEY_CLASSES_ROOT\.ini`, "PerceivedType")
	require.False(t, ok)

	require.Error(t, ld.SetPerceivedType(".ini", "spreadsheet"))
}

func TestDelete(t *testing.T) {
	ld, s := newFixtureLoader(t, platform.All())
	list := ld.Load(model.SceneFile, selection.New())
	zeta := list[1]
	require.NoError(t, ld.Delete(&list, zeta))
	require.False(t, s.KeyExists(zeta.Path))
	require.Equal(t, -1, list.IndexOf(func(e *model.Entry) bool { return e == zeta }))
}

func TestDeleteGroupMember(t *testing.T) {
	ld, s := newFixtureLoader(t, platform.All())
	list := ld.Load(model.SceneDragDrop, selection.New())
	g := GroupFor(list, model.MenuPathDirectory)
	require.NotNil(t, g)
	require.Len(t, g.Members(), 2)

	var victim *model.Entry
	for _, m := range g.Members() {
		if m.Text == "7-Zip" {
			victim = m
		}
	}
	require.NotNil(t, victim)
	require.NoError(t, ld.Delete(&list, victim))
	require.False(t, s.KeyExists(victim.Path))

	require.NotContains(t, g.Members(), victim)
	require.Len(t, g.Members(), 1)
	require.Nil(t, victim.Group)

	g.Fold(false)
	require.False(t, victim.Visible)
	for _, m := range g.Members() {
		require.True(t, m.Visible)
	}
}

func TestViewReloadsOnSelectionWrite(t *testing.T) {
	ld, _ := newFixtureLoader(t, platform.All())
	sel := selection.New()
	v := NewView(ld, sel, model.SceneCustomExtension)
	defer v.Close()

	_, ok := v.BasePath()
	require.False(t, ok)
	loads := v.Loads()

	sel.SetExtension(".ini")

	path, ok := v.BasePath()
	require.True(t, ok)
	require.Equal(t, `HKEY_CLASSES_ROOT\SystemFileAssociations\.ini`, path)
	require.Equal(t, loads+1, v.Loads())
	require.Equal(t, model.KindPerceivedType, v.Entries()[1].Kind)

	// Unrelated fields do not reload this view.
	sel.SetCustomPath(`HKEY_CLASSES_ROOT\Folder`)
	require.Equal(t, loads+1, v.Loads())

	v.Close()
	sel.SetExtension(".exe")
	path, _ = v.BasePath()
	require.Equal(t, `HKEY_CLASSES_ROOT\SystemFileAssociations\.ini`, path)
}

func TestViewSetScene(t *testing.T) {
	ld, _ := newFixtureLoader(t, platform.All())
	v := NewView(ld, selection.New(), model.SceneFile)
	defer v.Close()
	v.SetScene(model.SceneExeFile)
	require.Equal(t, model.SceneExeFile, v.Scene())
	require.Equal(t, []string{"New item", "runas", "open"}, texts(v.Entries()))
}

func TestHandlerDedupProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.SampledFrom([]string{"a", "b", "c", "d", "e"})
		enabled := rapid.SliceOfDistinct(name, func(s string) string { return s }).Draw(rt, "enabled")
		disabled := rapid.SliceOfDistinct(name, func(s string) string { return s }).Draw(rt, "disabled")

		s := store.NewMemStore()
		base := `HKEY_CLASSES_ROOT\Directory`
		for i, n := range enabled {
			p := fmt.Sprintf(`%s\ShellEx\ContextMenuHandlers\%s`, base, n)
			_ = s.SetValue(p, "", store.StringValue(fmt.Sprintf("{00000000-0000-0000-0000-%012d}", i)))
		}
		for i, n := range disabled {
			p := fmt.Sprintf(`%s\ShellEx\-ContextMenuHandlers\%s`, base, strings.ToUpper(n))
			_ = s.SetValue(p, "", store.StringValue(fmt.Sprintf("{00000000-0000-0000-0001-%012d}", i)))
		}
		ld := NewLoader(catalog.New(s, platform.All()), WithDictionaries(emptyDicts()))
		list := ld.LoadHandlers(model.SceneDirectory, base, nil)

		var want []string
		seen := map[string]bool{}
		for _, n := range append(append([]string(nil), enabled...), disabled...) {
			if !seen[n] {
				seen[n] = true
				want = append(want, n)
			}
		}
		var got []string
		for _, e := range list {
			got = append(got, strings.ToLower(e.Key.Name))
		}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			rt.Fatalf("got %v, want %v", got, want)
		}
		for _, e := range list {
			if e.Enabled != containsString(enabled, strings.ToLower(e.Key.Name)) {
				rt.Fatalf("%s enabled=%v", e.Key.Name, e.Enabled)
			}
		}
	})
}

func containsString(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

func TestFoldProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := model.NewGroup(`HKEY_CLASSES_ROOT\Folder\ShellEx`, "Folder")
		n := rapid.IntRange(0, 8).Draw(rt, "members")
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(rt, fmt.Sprintf("toggle%d", i)) {
				g.Toggle()
			}
			e := &model.Entry{Kind: model.KindHandler}
			g.AddMember(e)
		}
		folded := rapid.Bool().Draw(rt, "final")
		g.Fold(folded)
		for _, m := range g.Members() {
			if m.Visible == folded {
				rt.Fatalf("member visible=%v with folded=%v", m.Visible, folded)
			}
		}
		if !g.Header.Visible {
			rt.Fatal("header hidden")
		}
	})
}
