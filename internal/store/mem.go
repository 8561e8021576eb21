package store

import (
	"fmt"
	"strings"
	"sync"
)

type memNode struct {
	name     string
	children []*memNode
	index    map[string]*memNode // lowercased name -> child
	values   map[string]Value    // lowercased name -> value
	order    []string            // value names as written
}

func newMemNode(name string) *memNode {
	return &memNode{
		name:   name,
		index:  make(map[string]*memNode),
		values: make(map[string]Value),
	}
}

func (n *memNode) child(name string) *memNode {
	return n.index[strings.ToLower(name)]
}

func (n *memNode) addChild(name string) *memNode {
	if c := n.child(name); c != nil {
		return c
	}
	c := newMemNode(name)
	n.children = append(n.children, c)
	n.index[strings.ToLower(name)] = c
	return c
}

func (n *memNode) removeChild(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := n.index[lower]; !ok {
		return false
	}
	delete(n.index, lower)
	for i, c := range n.children {
		if strings.EqualFold(c.name, name) {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	return true
}

// MemStore is an in-memory Store that keeps children in insertion order.
// It backs fixture snapshots and tests.
type MemStore struct {
	mu    sync.RWMutex
	roots map[string]*memNode

	owned map[string]int // lowercased path -> ownership requests
}

// NewMemStore returns an empty store with every root present.
func NewMemStore() *MemStore {
	s := &MemStore{
		roots: make(map[string]*memNode, len(Roots)),
		owned: make(map[string]int),
	}
	for _, r := range Roots {
		s.roots[r] = newMemNode(r)
	}
	return s
}

func (s *MemStore) lookup(path string) *memNode {
	root, ok := RootOf(path)
	if !ok {
		return nil
	}
	n := s.roots[root]
	for _, seg := range Split(path)[1:] {
		if n = n.child(seg); n == nil {
			return nil
		}
	}
	return n
}

func (s *MemStore) ensure(path string) (*memNode, error) {
	root, ok := RootOf(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	n := s.roots[root]
	for _, seg := range Split(path)[1:] {
		if seg == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, path)
		}
		n = n.addChild(seg)
	}
	return n, nil
}

// CreateKey creates path and any missing parents.
func (s *MemStore) CreateKey(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.ensure(path)
	return err
}

func (s *MemStore) SubKeyNames(path string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.lookup(path)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
	}
	names := make([]string, len(n.children))
	for i, c := range n.children {
		names[i] = c.name
	}
	return names, nil
}

func (s *MemStore) Value(path, name string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.lookup(path)
	if n == nil {
		return Value{}, false
	}
	v, ok := n.values[strings.ToLower(name)]
	return v, ok
}

func (s *MemStore) SetValue(path, name string, v Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.ensure(path)
	if err != nil {
		return err
	}
	lower := strings.ToLower(name)
	if _, ok := n.values[lower]; !ok {
		n.order = append(n.order, name)
	}
	n.values[lower] = v
	return nil
}

func (s *MemStore) ValueNames(path string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.lookup(path)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
	}
	return append([]string(nil), n.order...), nil
}

func (s *MemStore) DeleteValue(path, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.lookup(path); n != nil {
		delete(n.values, strings.ToLower(name))
		for i, o := range n.order {
			if strings.EqualFold(o, name) {
				n.order = append(n.order[:i], n.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (s *MemStore) DeleteKey(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent := s.lookup(Parent(path))
	if parent == nil || Parent(path) == "" {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, path)
	}
	if !parent.removeChild(SplitKey(path).Name) {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, path)
	}
	return nil
}

func (s *MemStore) KeyExists(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(path) != nil
}

// TakeOwnership only records the request; memory nodes are always writable.
func (s *MemStore) TakeOwnership(path string, tree bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owned[strings.ToLower(path)]++
	return nil
}

// OwnershipRequests reports how many times ownership of path was requested.
func (s *MemStore) OwnershipRequests(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owned[strings.ToLower(path)]
}
