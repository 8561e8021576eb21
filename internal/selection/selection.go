// Package selection holds the user's most recent refinement for each
// refinable scene. Every write notifies subscribers synchronously before it
// returns, which is what makes bound views reload.
package selection

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"shellmenu/internal/model"
	"shellmenu/internal/store"
)

var (
	ErrUnknownPerceivedType = errors.New("unknown perceived type")
	ErrUnknownDirectoryType = errors.New("unknown directory type")
	ErrNoPrompter           = errors.New("no store path prompter")
)

// Field names the selection slot a Change touched.
type Field int

const (
	FieldExtension Field = iota
	FieldPerceivedType
	FieldDirectoryType
	FieldCustomPath
	FieldAnalysisTarget
)

func (f Field) String() string {
	switch f {
	case FieldExtension:
		return "extension"
	case FieldPerceivedType:
		return "perceived-type"
	case FieldDirectoryType:
		return "directory-type"
	case FieldCustomPath:
		return "custom-path"
	case FieldAnalysisTarget:
		return "analysis-target"
	}
	return "unknown"
}

// ErrUnknownField rejects a field name ParseField does not know.
var ErrUnknownField = errors.New("unknown selection field")

// ParseField accepts the names Field.String returns.
func ParseField(name string) (Field, error) {
	for f := FieldExtension; f <= FieldAnalysisTarget; f++ {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Scene is the scene whose list depends on the field.
func (f Field) Scene() model.Scene {
	switch f {
	case FieldExtension:
		return model.SceneCustomExtension
	case FieldPerceivedType:
		return model.ScenePerceivedType
	case FieldDirectoryType:
		return model.SceneDirectoryType
	case FieldCustomPath:
		return model.SceneCustomRegPath
	default:
		return model.SceneMenuAnalysis
	}
}

// Change describes one write.
type Change struct {
	Field Field
	Old   string
	New   string
}

// PathPrompter asks the user for a store path, typically by opening an
// external registry editor and reading back where it ended.
type PathPrompter interface {
	PromptForStorePath() (string, bool)
}

// PrompterFunc adapts a function to PathPrompter.
type PrompterFunc func() (string, bool)

func (f PrompterFunc) PromptForStorePath() (string, bool) { return f() }

type slot struct {
	value string
	set   bool
}

type subscriber struct {
	id int
	fn func(Change)
}

// State is the single in-memory copy of the selection. The zero value is
// not usable; call New.
type State struct {
	mu     sync.RWMutex
	fields [5]slot

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

// New returns an empty selection.
func New() *State {
	return &State{}
}

// Subscribe registers fn to run after every write. The returned function
// removes the subscription.
func (s *State) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *State) get(f Field) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl := s.fields[f]
	return sl.value, sl.set
}

// set stores the value, releases the lock, then notifies. Subscribers may
// read the state (and even write it) from inside their callback.
func (s *State) set(f Field, value string, present bool) Change {
	s.mu.Lock()
	old := s.fields[f].value
	s.fields[f] = slot{value: value, set: present}
	s.mu.Unlock()

	ch := Change{Field: f, Old: old, New: value}

	s.subMu.Lock()
	subs := append([]subscriber(nil), s.subs...)
	s.subMu.Unlock()
	for _, sub := range subs {
		sub.fn(ch)
	}
	return ch
}

// Extension is the selected custom extension, including its leading dot.
func (s *State) Extension() (string, bool) { return s.get(FieldExtension) }

// PerceivedType is the selected perceived-type token.
func (s *State) PerceivedType() (string, bool) { return s.get(FieldPerceivedType) }

// DirectoryType is the selected directory-type token.
func (s *State) DirectoryType() (string, bool) { return s.get(FieldDirectoryType) }

// CustomPath is the selected store path.
func (s *State) CustomPath() (string, bool) { return s.get(FieldCustomPath) }

// AnalysisTarget is the selected file-system object.
func (s *State) AnalysisTarget() (string, bool) { return s.get(FieldAnalysisTarget) }

// SetExtension selects ext. A missing leading dot is added; "" clears.
func (s *State) SetExtension(ext string) Change {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return s.set(FieldExtension, "", false)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return s.set(FieldExtension, ext, true)
}

// SetPerceivedType selects one of model.PerceivedTypes. The index-0 token
// ("") means no perceived type and clears the slot.
func (s *State) SetPerceivedType(token string) (Change, error) {
	i := model.PerceivedTypeIndex(token)
	if i < 0 {
		return Change{}, fmt.Errorf("%w: %q", ErrUnknownPerceivedType, token)
	}
	if i == 0 {
		return s.set(FieldPerceivedType, "", false), nil
	}
	return s.set(FieldPerceivedType, model.PerceivedTypes[i], true), nil
}

// AdoptPerceivedType selects a perceived type read from the store. Table
// tokens are stored in canonical case; other registered values such as
// "application" are kept as read so the scene still resolves. "" clears.
func (s *State) AdoptPerceivedType(value string) Change {
	value = strings.TrimSpace(value)
	if i := model.PerceivedTypeIndex(value); i == 0 {
		return s.set(FieldPerceivedType, "", false)
	} else if i > 0 {
		value = model.PerceivedTypes[i]
	}
	return s.set(FieldPerceivedType, value, true)
}

// SetDirectoryType selects one of model.DirectoryTypes; "" clears.
func (s *State) SetDirectoryType(token string) (Change, error) {
	if token == "" {
		return s.set(FieldDirectoryType, "", false), nil
	}
	i := model.DirectoryTypeIndex(token)
	if i < 0 {
		return Change{}, fmt.Errorf("%w: %q", ErrUnknownDirectoryType, token)
	}
	return s.set(FieldDirectoryType, model.DirectoryTypes[i], true), nil
}

// SetCustomPath selects a store path verbatim; "" clears.
func (s *State) SetCustomPath(path string) Change {
	return s.set(FieldCustomPath, path, path != "")
}

// SetAnalysisTarget selects a file-system object; "" clears.
func (s *State) SetAnalysisTarget(path string) Change {
	return s.set(FieldAnalysisTarget, path, path != "")
}

// Set writes field f through its typed setter.
func (s *State) Set(f Field, value string) (Change, error) {
	switch f {
	case FieldExtension:
		return s.SetExtension(value), nil
	case FieldPerceivedType:
		return s.SetPerceivedType(value)
	case FieldDirectoryType:
		return s.SetDirectoryType(value)
	case FieldCustomPath:
		return s.SetCustomPath(TrimDisplayRoot(value)), nil
	case FieldAnalysisTarget:
		return s.SetAnalysisTarget(value), nil
	}
	return Change{}, fmt.Errorf("%w: %d", ErrUnknownField, f)
}

// ChooseCustomPath asks p for a path and selects it. The prompter's answer
// may carry a leading display segment (regedit reports "Computer\HKEY_...");
// it is dropped when it is not itself a store root. ok is false when the
// user cancelled or the answer holds no store path.
func (s *State) ChooseCustomPath(p PathPrompter) (ch Change, ok bool, err error) {
	if p == nil {
		return Change{}, false, ErrNoPrompter
	}
	path, ok := p.PromptForStorePath()
	if !ok {
		return Change{}, false, nil
	}
	path = TrimDisplayRoot(path)
	if path == "" {
		return Change{}, false, nil
	}
	return s.SetCustomPath(path), true, nil
}

// TrimDisplayRoot removes a leading non-root segment from a store path.
func TrimDisplayRoot(path string) string {
	if _, ok := store.RootOf(path); ok {
		return path
	}
	i := strings.IndexByte(path, '\\')
	if i < 0 {
		return ""
	}
	return path[i+1:]
}

// Label is the selector-row text for scene.
func (s *State) Label(scene model.Scene) string {
	switch scene {
	case model.SceneCustomExtension:
		if ext, ok := s.Extension(); ok {
			return "Current extension: " + ext
		}
		return "Select an extension"
	case model.ScenePerceivedType:
		if pt, ok := s.PerceivedType(); ok {
			return "Current perceived type: " + model.PerceivedTypeLabel(pt)
		}
		return "Select a perceived type"
	case model.SceneDirectoryType:
		if dt, ok := s.DirectoryType(); ok {
			return "Current directory type: " + model.DirectoryTypeLabel(dt)
		}
		return "Select a directory type"
	case model.SceneCustomRegPath:
		if p, ok := s.CustomPath(); ok {
			return "Current registry path:\n" + p
		}
		return "Select a registry path"
	case model.SceneMenuAnalysis:
		if p, ok := s.AnalysisTarget(); ok {
			return "Current file path:\n" + p
		}
		return "Drop or select a file or folder"
	}
	return ""
}
