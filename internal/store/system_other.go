//go:build !windows

package store

import "github.com/charmbracelet/log"

// OpenSystem reports ErrNoSystemStore off Windows; load a fixture instead.
func OpenSystem(logger *log.Logger) (Store, error) {
	return nil, ErrNoSystemStore
}
