package analysis

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// LinkResolver finds the target of a shortcut.
type LinkResolver interface {
	Resolve(path string) (target string, ok bool)
}

// Chain tries each resolver in turn.
type Chain []LinkResolver

func (c Chain) Resolve(path string) (string, bool) {
	for _, r := range c {
		if t, ok := r.Resolve(path); ok {
			return t, true
		}
	}
	return "", false
}

// MapResolver resolves from a fixed table, keyed case-insensitively.
type MapResolver map[string]string

func (m MapResolver) Resolve(path string) (string, bool) {
	for k, v := range m {
		if strings.EqualFold(k, path) {
			return v, true
		}
	}
	return "", false
}

// SymlinkResolver follows symbolic links on file systems that expose them.
type SymlinkResolver struct {
	Fs afero.Fs
}

func (r SymlinkResolver) Resolve(path string) (string, bool) {
	lr, ok := r.Fs.(afero.LinkReader)
	if !ok {
		return "", false
	}
	t, err := lr.ReadlinkIfPossible(path)
	if err != nil || t == "" {
		return "", false
	}
	return t, true
}

// ShellLinkResolver reads the local target path out of a .lnk file.
type ShellLinkResolver struct {
	Fs afero.Fs
}

func (r ShellLinkResolver) Resolve(path string) (string, bool) {
	data, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return "", false
	}
	t, err := ParseShellLink(data)
	if err != nil || t == "" {
		return "", false
	}
	return t, true
}

// Shell link layout.
const (
	linkHeaderSize = 0x4c

	linkHasTargetIDList = 0x1
	linkHasLinkInfo     = 0x2

	linkInfoHeaderSize               = 0x1c
	linkInfoVolumeIDAndLocalBasePath = 0x1
)

var linkCLSID = []byte{
	0x01, 0x14, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xc0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46,
}

// ErrNotShellLink rejects data without a shell link header.
var ErrNotShellLink = errors.New("not a shell link")

// ParseShellLink returns the local base path recorded in a shell link.
// Links without local path information yield "".
func ParseShellLink(data []byte) (string, error) {
	if len(data) < linkHeaderSize ||
		binary.LittleEndian.Uint32(data) != linkHeaderSize ||
		!bytes.Equal(data[4:20], linkCLSID) {
		return "", ErrNotShellLink
	}
	flags := binary.LittleEndian.Uint32(data[0x14:])
	off := linkHeaderSize
	if flags&linkHasTargetIDList != 0 {
		if len(data) < off+2 {
			return "", fmt.Errorf("id list: %w", io.ErrUnexpectedEOF)
		}
		off += 2 + int(binary.LittleEndian.Uint16(data[off:]))
	}
	if flags&linkHasLinkInfo == 0 {
		return "", nil
	}
	if len(data) < off+linkInfoHeaderSize {
		return "", fmt.Errorf("link info: %w", io.ErrUnexpectedEOF)
	}
	info := data[off:]
	size := int(binary.LittleEndian.Uint32(info))
	if size > len(info) {
		return "", fmt.Errorf("link info: %w", io.ErrUnexpectedEOF)
	}
	if size < linkInfoHeaderSize {
		return "", fmt.Errorf("link info size %d: %w", size, io.ErrUnexpectedEOF)
	}
	info = info[:size]
	if binary.LittleEndian.Uint32(info[8:])&linkInfoVolumeIDAndLocalBasePath == 0 {
		return "", nil
	}
	base, err := cString(info, binary.LittleEndian.Uint32(info[16:]))
	if err != nil {
		return "", fmt.Errorf("local base path: %w", err)
	}
	suffix, err := cString(info, binary.LittleEndian.Uint32(info[24:]))
	if err != nil {
		return "", fmt.Errorf("path suffix: %w", err)
	}
	if suffix != "" && !strings.HasSuffix(base, `\`) {
		base += `\`
	}
	return base + suffix, nil
}

func cString(b []byte, off uint32) (string, error) {
	if int(off) >= len(b) {
		return "", io.ErrUnexpectedEOF
	}
	s := b[off:]
	if i := bytes.IndexByte(s, 0); i >= 0 {
		return string(s[:i]), nil
	}
	return "", io.ErrUnexpectedEOF
}
