package model

import (
	"github.com/google/uuid"

	"shellmenu/internal/store"
)

// Kind tells the presentation layer what an Entry row is.
type Kind int

const (
	KindCommand       Kind = iota // child of a base path's shell namespace
	KindHandler                   // child of a handler-kind namespace under ShellEx
	KindGroup                     // drag-drop group header
	KindStoreCommand              // CommandStore verb
	KindRule                      // visibility policy toggle
	KindUWPMode                   // UWP alternate-invocation entry
	KindNew                       // "add new item" row
	KindSelector                  // current-selection row of a refinable scene
	KindPerceivedType             // "set perceived type" row of an extension
	KindJump                      // analysis shortcut to another scene
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindHandler:
		return "handler"
	case KindGroup:
		return "group"
	case KindStoreCommand:
		return "store-command"
	case KindRule:
		return "rule"
	case KindUWPMode:
		return "uwp-mode"
	case KindNew:
		return "new"
	case KindSelector:
		return "selector"
	case KindPerceivedType:
		return "perceived-type"
	case KindJump:
		return "jump"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Entry is one row of a resolved scene.
type Entry struct {
	Kind Kind      `json:"kind"`
	Key  store.Key `json:"-"`
	// Path is the backing node path for store-backed rows, the base path for
	// new/selector rows, and the extension node for perceived-type rows.
	Path string `json:"path,omitempty"`

	Text    string    `json:"text"`
	Command string    `json:"command,omitempty"`
	GUID    uuid.UUID `json:"guid"`

	// Visible is list visibility (false for members of a folded group).
	Visible bool `json:"visible"`
	// Enabled is whether the shell shows the item in its menu.
	Enabled       bool `json:"enabled"`
	OnlyWithShift bool `json:"onlyWithShift,omitempty"`

	Scene     Scene      `json:"scene"`
	Group     *Group     `json:"-"`
	Rule      *Rule      `json:"rule,omitempty"`
	Candidate *Candidate `json:"candidate,omitempty"`
}

// Group folds the handler entries registered under one multiplexed base path.
type Group struct {
	Header *Entry
	// Target is the handler root the members were loaded from.
	Target  string
	Folded  bool
	members []*Entry
}

// NewGroup builds a group and its header row.
func NewGroup(target, text string) *Group {
	g := &Group{Target: target}
	g.Header = &Entry{
		Kind:    KindGroup,
		Key:     store.SplitKey(target),
		Path:    target,
		Text:    text,
		Visible: true,
		Enabled: true,
		Group:   g,
	}
	return g
}

// AddMember attaches e to the group; its visibility follows the fold state.
func (g *Group) AddMember(e *Entry) {
	e.Group = g
	e.Visible = !g.Folded
	g.members = append(g.members, e)
}

// RemoveMember detaches e from the group. Entries of other groups are
// left alone.
func (g *Group) RemoveMember(e *Entry) {
	for i, m := range g.members {
		if m == e {
			g.members = append(g.members[:i:i], g.members[i+1:]...)
			e.Group = nil
			return
		}
	}
}

// Members returns the member entries in load order.
func (g *Group) Members() []*Entry {
	return g.members
}

// Fold sets the fold state and updates member visibility.
func (g *Group) Fold(folded bool) {
	g.Folded = folded
	for _, m := range g.members {
		m.Visible = !folded
	}
}

// Toggle flips the fold state.
func (g *Group) Toggle() { g.Fold(!g.Folded) }

// Rule describes a policy value that hides a built-in menu item.
type Rule struct {
	Name      string `json:"name"`
	Text      string `json:"text"`
	Path      string `json:"path"`
	ValueName string `json:"valueName"`
}

// Candidate is an applicable scene found by analysis, with the facts needed
// to label it and to update the selection when it is activated.
type Candidate struct {
	Scene         Scene  `json:"scene"`
	Extension     string `json:"extension,omitempty"`
	PerceivedType string `json:"perceivedType,omitempty"`
	// Target is the analyzed object, or the link target when resolved.
	Target string `json:"target,omitempty"`
}

// List is an ordered entry list.
type List []*Entry

// Insert places e at index i, clamped to the list bounds.
func (l *List) Insert(i int, e *Entry) {
	if i < 0 {
		i = 0
	}
	if i >= len(*l) {
		*l = append(*l, e)
		return
	}
	*l = append(*l, nil)
	copy((*l)[i+1:], (*l)[i:])
	(*l)[i] = e
}

// IndexOf returns the index of the first entry matching pred, or -1.
func (l List) IndexOf(pred func(*Entry) bool) int {
	for i, e := range l {
		if pred(e) {
			return i
		}
	}
	return -1
}

// OfKind returns the entries of kind k in order.
func (l List) OfKind(k Kind) List {
	var out List
	for _, e := range l {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// VisibleEntries drops rows hidden by folding.
func (l List) VisibleEntries() List {
	var out List
	for _, e := range l {
		if e.Visible {
			out = append(out, e)
		}
	}
	return out
}

// Groups returns the group headers' groups in order.
func (l List) Groups() []*Group {
	var out []*Group
	for _, e := range l {
		if e.Kind == KindGroup {
			out = append(out, e.Group)
		}
	}
	return out
}
