package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shellmenu/internal/model"
)

func TestSetExtensionNotifiesBeforeReturning(t *testing.T) {
	s := New()
	var seen []string
	s.Subscribe(func(ch Change) {
		got, _ := s.Extension()
		seen = append(seen, ch.Field.String()+"="+got)
	})

	ch := s.SetExtension("ini")

	require.Equal(t, []string{"extension=.ini"}, seen)
	require.Equal(t, ".ini", ch.New)
	ext, ok := s.Extension()
	require.True(t, ok)
	require.Equal(t, ".ini", ext)
}

func TestSubscribersRunInOrderAndCanUnsubscribe(t *testing.T) {
	s := New()
	var order []int
	s.Subscribe(func(Change) { order = append(order, 1) })
	unsub := s.Subscribe(func(Change) { order = append(order, 2) })

	s.SetCustomPath(`HKEY_CLASSES_ROOT\Folder`)
	unsub()
	s.SetCustomPath("")

	require.Equal(t, []int{1, 2, 1}, order)
	_, ok := s.CustomPath()
	require.False(t, ok)
}

func TestSubscriberMayWriteFromCallback(t *testing.T) {
	s := New()
	s.Subscribe(func(ch Change) {
		if ch.Field == FieldAnalysisTarget {
			s.SetExtension(".txt")
		}
	})
	s.SetAnalysisTarget("/tmp/a.txt")
	ext, _ := s.Extension()
	require.Equal(t, ".txt", ext)
}

func TestSetPerceivedType(t *testing.T) {
	s := New()

	_, err := s.SetPerceivedType("text")
	require.NoError(t, err)
	pt, ok := s.PerceivedType()
	require.True(t, ok)
	require.Equal(t, "Text", pt)

	_, err = s.SetPerceivedType("")
	require.NoError(t, err)
	_, ok = s.PerceivedType()
	require.False(t, ok)

	_, err = s.SetPerceivedType("Spreadsheet")
	require.ErrorIs(t, err, ErrUnknownPerceivedType)
}

func TestAdoptPerceivedType(t *testing.T) {
	s := New()
	var seen []Change
	s.Subscribe(func(ch Change) { seen = append(seen, ch) })

	s.AdoptPerceivedType("IMAGE")
	pt, _ := s.PerceivedType()
	require.Equal(t, "Image", pt)

	s.AdoptPerceivedType("application")
	pt, ok := s.PerceivedType()
	require.True(t, ok)
	require.Equal(t, "application", pt)

	s.AdoptPerceivedType("")
	_, ok = s.PerceivedType()
	require.False(t, ok)
	require.Len(t, seen, 3)
}

func TestSetDirectoryType(t *testing.T) {
	s := New()
	_, err := s.SetDirectoryType("video")
	require.NoError(t, err)
	dt, _ := s.DirectoryType()
	require.Equal(t, "Video", dt)

	_, err = s.SetDirectoryType("Pictures")
	require.ErrorIs(t, err, ErrUnknownDirectoryType)
	dt, _ = s.DirectoryType()
	require.Equal(t, "Video", dt, "failed write must not change the selection")
}

func TestChooseCustomPath(t *testing.T) {
	s := New()

	_, ok, err := s.ChooseCustomPath(PrompterFunc(func() (string, bool) {
		return `Computer\HKEY_CLASSES_ROOT\txtfile`, true
	}))
	require.NoError(t, err)
	require.True(t, ok)
	p, _ := s.CustomPath()
	require.Equal(t, `HKEY_CLASSES_ROOT\txtfile`, p)

	_, ok, err = s.ChooseCustomPath(PrompterFunc(func() (string, bool) { return "", false }))
	require.NoError(t, err)
	require.False(t, ok)
	p, _ = s.CustomPath()
	require.Equal(t, `HKEY_CLASSES_ROOT\txtfile`, p)

	_, _, err = s.ChooseCustomPath(nil)
	require.ErrorIs(t, err, ErrNoPrompter)
}

func TestTrimDisplayRoot(t *testing.T) {
	require.Equal(t, `HKEY_CURRENT_USER\Software`, TrimDisplayRoot(`HKEY_CURRENT_USER\Software`))
	require.Equal(t, `HKEY_CURRENT_USER\Software`, TrimDisplayRoot(`Computer\HKEY_CURRENT_USER\Software`))
	require.Equal(t, "", TrimDisplayRoot("Computer"))
}

func TestLabel(t *testing.T) {
	s := New()
	require.Equal(t, "Select an extension", s.Label(model.SceneCustomExtension))
	s.SetExtension(".md")
	require.Equal(t, "Current extension: .md", s.Label(model.SceneCustomExtension))
	_, _ = s.SetPerceivedType("Audio")
	require.Equal(t, "Current perceived type: Audio file", s.Label(model.ScenePerceivedType))
}

func TestParseFieldAndSet(t *testing.T) {
	s := New()
	for _, tc := range []struct {
		name, value, want string
	}{
		{"extension", "md", ".md"},
		{"Perceived-Type", "audio", "Audio"},
		{"directory-type", "image", "Image"},
		{"custom-path", `Computer\HKEY_CLASSES_ROOT\Foo`, `HKEY_CLASSES_ROOT\Foo`},
		{"analysis-target", `C:\x.txt`, `C:\x.txt`},
	} {
		f, err := ParseField(tc.name)
		require.NoError(t, err, tc.name)
		ch, err := s.Set(f, tc.value)
		require.NoError(t, err, tc.name)
		require.Equal(t, tc.want, ch.New, tc.name)
	}

	_, err := ParseField("color")
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = s.Set(FieldDirectoryType, "Music")
	require.ErrorIs(t, err, ErrUnknownDirectoryType)
}
