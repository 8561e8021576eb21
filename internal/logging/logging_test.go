package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn")
	require.NoError(t, err)

	l.Info("quiet")
	require.Empty(t, buf.String())

	l.Warn("loud", "scene", "File")
	require.Contains(t, buf.String(), "loud")
	require.Contains(t, buf.String(), Prefix)
	require.Contains(t, buf.String(), "scene=File")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "chatty")
	require.Error(t, err)
}

func TestDiscard(t *testing.T) {
	Discard().Error("dropped")
}
