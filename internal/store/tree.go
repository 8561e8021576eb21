package store

import "fmt"

// CopyTree copies src, its values and its subtree to dst. Existing values
// under dst are overwritten.
func CopyTree(s Store, src, dst string) error {
	names, err := s.ValueNames(src)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		// SetValue is the only way to create a node through the contract.
		if err := s.SetValue(dst, "", StringValue("")); err != nil {
			return err
		}
		if err := s.DeleteValue(dst, ""); err != nil {
			return err
		}
	}
	for _, n := range names {
		v, ok := s.Value(src, n)
		if !ok {
			continue
		}
		if err := s.SetValue(dst, n, v); err != nil {
			return fmt.Errorf("copy %s to %s: %w", src, dst, err)
		}
	}
	children, err := s.SubKeyNames(src)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := CopyTree(s, Join(src, c), Join(dst, c)); err != nil {
			return err
		}
	}
	return nil
}

// MoveTree copies src to dst, then deletes src.
func MoveTree(s Store, src, dst string) error {
	if EqualPath(src, dst) {
		return nil
	}
	if err := CopyTree(s, src, dst); err != nil {
		return err
	}
	return s.DeleteKey(src)
}
