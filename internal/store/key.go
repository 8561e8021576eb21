package store

import "strings"

// Key is the structured identity of a node: the path of its parent plus its
// own leaf name. Entries carry a Key computed once at load time.
type Key struct {
	Parent string
	Name   string
}

// SplitKey derives the Key of path.
func SplitKey(path string) Key {
	i := strings.LastIndexByte(path, '\\')
	if i < 0 {
		return Key{Name: path}
	}
	return Key{Parent: path[:i], Name: path[i+1:]}
}

// Path reassembles the full path.
func (k Key) Path() string {
	if k.Parent == "" {
		return k.Name
	}
	return k.Parent + `\` + k.Name
}

// IsZero reports whether the key names nothing.
func (k Key) IsZero() bool {
	return k.Parent == "" && k.Name == ""
}

// Equal compares keys case-insensitively.
func (k Key) Equal(o Key) bool {
	return strings.EqualFold(k.Parent, o.Parent) && strings.EqualFold(k.Name, o.Name)
}

// SameName compares only the leaf names.
func (k Key) SameName(o Key) bool {
	return strings.EqualFold(k.Name, o.Name)
}

func (k Key) String() string {
	return k.Path()
}
