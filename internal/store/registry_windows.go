//go:build windows

package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/windows/registry"
)

var rootKeys = map[string]registry.Key{
	ClassesRoot:   registry.CLASSES_ROOT,
	CurrentUser:   registry.CURRENT_USER,
	LocalMachine:  registry.LOCAL_MACHINE,
	Users:         registry.USERS,
	CurrentConfig: registry.CURRENT_CONFIG,
}

// Registry is the Windows registry behind the Store contract.
type Registry struct {
	Logger *log.Logger
}

// OpenSystem returns the native store.
func OpenSystem(logger *log.Logger) (Store, error) {
	return &Registry{Logger: logger}, nil
}

func splitRoot(path string) (registry.Key, string, error) {
	root, ok := RootOf(path)
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	_, rest, _ := strings.Cut(path, `\`)
	return rootKeys[root], rest, nil
}

func (r *Registry) open(path string, access uint32) (registry.Key, error) {
	root, sub, err := splitRoot(path)
	if err != nil {
		return 0, err
	}
	k, err := registry.OpenKey(root, sub, access)
	if errors.Is(err, registry.ErrNotExist) {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
	}
	return k, err
}

func (r *Registry) SubKeyNames(path string) ([]string, error) {
	k, err := r.open(path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, err
	}
	defer k.Close()
	return k.ReadSubKeyNames(-1)
}

func (r *Registry) ValueNames(path string) ([]string, error) {
	k, err := r.open(path, registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	defer k.Close()
	return k.ReadValueNames(-1)
}

func (r *Registry) Value(path, name string) (Value, bool) {
	k, err := r.open(path, registry.QUERY_VALUE)
	if err != nil {
		return Value{}, false
	}
	defer k.Close()

	s, typ, err := k.GetStringValue(name)
	if err == nil {
		if typ == registry.EXPAND_SZ {
			return Value{Kind: ExpandString, Str: s}, true
		}
		return StringValue(s), true
	}
	if errors.Is(err, registry.ErrUnexpectedType) {
		n, _, err := k.GetIntegerValue(name)
		if err == nil {
			return DWordValue(uint32(n)), true
		}
	}
	return Value{}, false
}

func (r *Registry) SetValue(path, name string, v Value) error {
	root, sub, err := splitRoot(path)
	if err != nil {
		return err
	}
	k, _, err := registry.CreateKey(root, sub, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer k.Close()
	switch v.Kind {
	case DWord:
		return k.SetDWordValue(name, v.Num)
	case ExpandString:
		return k.SetExpandStringValue(name, v.Str)
	default:
		return k.SetStringValue(name, v.Str)
	}
}

func (r *Registry) DeleteValue(path, name string) error {
	k, err := r.open(path, registry.SET_VALUE)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	defer k.Close()
	if err := k.DeleteValue(name); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return err
	}
	return nil
}

// DeleteKey removes children first; the registry API only deletes leaves.
func (r *Registry) DeleteKey(path string) error {
	names, err := r.SubKeyNames(path)
	if err != nil {
		return err
	}
	for _, n := range names {
		if err := r.DeleteKey(Join(path, n)); err != nil {
			return err
		}
	}
	parent, err := r.open(Parent(path), registry.ALL_ACCESS)
	if err != nil {
		return err
	}
	defer parent.Close()
	return registry.DeleteKey(parent, SplitKey(path).Name)
}

func (r *Registry) KeyExists(path string) bool {
	k, err := r.open(path, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	k.Close()
	return true
}

// TakeOwnership is delegated to the elevation layer, which runs before the
// process starts touching protected nodes.
func (r *Registry) TakeOwnership(path string, tree bool) error {
	if r.Logger != nil {
		r.Logger.Debug("ownership requested", "path", path, "tree", tree)
	}
	return nil
}
