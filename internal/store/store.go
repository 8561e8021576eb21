// Package store defines the hierarchical key/value namespace the menu engine
// reads and writes. Paths are backslash-delimited and rooted at one of the
// fixed top-level roots (HKEY_CLASSES_ROOT, HKEY_CURRENT_USER, ...).
package store

import (
	"errors"
	"strconv"
	"strings"
)

// Top-level roots.
const (
	ClassesRoot   = `HKEY_CLASSES_ROOT`
	CurrentUser   = `HKEY_CURRENT_USER`
	LocalMachine  = `HKEY_LOCAL_MACHINE`
	Users         = `HKEY_USERS`
	CurrentConfig = `HKEY_CURRENT_CONFIG`
)

// Roots lists every accepted top-level root.
var Roots = []string{ClassesRoot, CurrentUser, LocalMachine, Users, CurrentConfig}

var (
	// ErrKeyNotFound is returned when a path names no node.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidPath is returned for paths outside the known roots.
	ErrInvalidPath = errors.New("invalid store path")
	// ErrNoSystemStore is returned when the platform has no native store.
	ErrNoSystemStore = errors.New("no system store on this platform")
)

// Kind is the on-disk type of a value.
type Kind int

const (
	String Kind = iota
	ExpandString
	DWord
)

func (k Kind) String() string {
	switch k {
	case String:
		return "REG_SZ"
	case ExpandString:
		return "REG_EXPAND_SZ"
	case DWord:
		return "REG_DWORD"
	default:
		return "UNKNOWN"
	}
}

// Value is a typed value held by a node.
type Value struct {
	Kind Kind
	Str  string
	Num  uint32
}

// StringValue builds a REG_SZ value.
func StringValue(s string) Value { return Value{Kind: String, Str: s} }

// DWordValue builds a REG_DWORD value.
func DWordValue(n uint32) Value { return Value{Kind: DWord, Num: n} }

// Text returns the string form of the value; DWORDs render in decimal.
func (v Value) Text() string {
	if v.Kind == DWord {
		return strconv.FormatUint(uint64(v.Num), 10)
	}
	return v.Str
}

// Store is the namespace contract. Implementations must return subkey names
// in the backing store's own enumeration order.
type Store interface {
	// SubKeyNames lists the immediate children of path. ErrKeyNotFound when
	// the node is absent.
	SubKeyNames(path string) ([]string, error)
	// ValueNames lists the names of the values held by path.
	ValueNames(path string) ([]string, error)
	// Value reads a named value; name "" is the node's default value.
	Value(path, name string) (Value, bool)
	// SetValue writes a value, creating missing nodes along the way.
	SetValue(path, name string, v Value) error
	// DeleteValue removes a value. Deleting an absent value is not an error.
	DeleteValue(path, name string) error
	// DeleteKey removes a node and its subtree.
	DeleteKey(path string) error
	// KeyExists reports whether path names a node.
	KeyExists(path string) bool
	// TakeOwnership makes path (and, when tree is set, its subtree) writable
	// by the current process. Repeated calls are harmless.
	TakeOwnership(path string, tree bool) error
}

// Join appends child segments to a path.
func Join(path string, elem ...string) string {
	var b strings.Builder
	b.WriteString(path)
	for _, e := range elem {
		if e == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\\')
		}
		b.WriteString(e)
	}
	return b.String()
}

// Parent returns path without its last segment, or "" for a root.
func Parent(path string) string {
	i := strings.LastIndexByte(path, '\\')
	if i < 0 {
		return ""
	}
	return path[:i]
}

// Split breaks a path into its segments.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, `\`)
}

// RootOf returns the canonical root a path starts with.
func RootOf(path string) (string, bool) {
	first, _, _ := strings.Cut(path, `\`)
	for _, r := range Roots {
		if strings.EqualFold(first, r) {
			return r, true
		}
	}
	return "", false
}

// EqualPath compares two paths the way the store does: case-insensitively.
func EqualPath(a, b string) bool {
	return strings.EqualFold(a, b)
}
