// Package dict loads the read-only lookup tables that supplement the store:
// the per-scene list of UWP-mode handler GUIDs and the GUID info table.
package dict

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

//go:embed defaults/uwp_mode_items.xml
var defaultUWPModeItems []byte

//go:embed defaults/guid_infos.toml
var defaultGUIDInfos []byte

// Info describes one GUID.
type Info struct {
	Text    string `toml:"text"`
	UWPName string `toml:"uwp_name"`
}

// UWPModeItems maps a scene name to the raw GUID strings listed for it, in
// document order. Entries are not validated here.
type UWPModeItems map[string][]string

type uwpDoc struct {
	XMLName xml.Name   `xml:"Data"`
	Scenes  []uwpScene `xml:",any"`
}

type uwpScene struct {
	XMLName xml.Name
	Items   []struct {
		GUID string `xml:"Guid,attr"`
	} `xml:"Item"`
}

// ParseUWPModeItems reads a <Data><Scene><Item Guid="..."/></Scene></Data>
// document. A scene element may appear more than once; its items append.
func ParseUWPModeItems(r io.Reader) (UWPModeItems, error) {
	var doc uwpDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse uwp mode items: %w", err)
	}
	items := make(UWPModeItems, len(doc.Scenes))
	for _, sc := range doc.Scenes {
		name := sc.XMLName.Local
		for _, it := range sc.Items {
			items[name] = append(items[name], it.GUID)
		}
	}
	return items, nil
}

// GUIDInfos maps a GUID to its info.
type GUIDInfos map[uuid.UUID]Info

// ParseGUIDInfos reads a TOML document with one table per braced GUID.
// Tables whose name is not a GUID are rejected.
func ParseGUIDInfos(r io.Reader) (GUIDInfos, error) {
	raw := map[string]Info{}
	if err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse guid infos: %w", err)
	}
	infos := make(GUIDInfos, len(raw))
	for k, info := range raw {
		id, err := uuid.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("parse guid infos: table %q: %w", k, err)
		}
		infos[id] = info
	}
	return infos, nil
}

// Merge overlays o onto infos per GUID; non-empty fields of o win.
func (infos GUIDInfos) Merge(o GUIDInfos) {
	for id, info := range o {
		cur := infos[id]
		if info.Text != "" {
			cur.Text = info.Text
		}
		if info.UWPName != "" {
			cur.UWPName = info.UWPName
		}
		infos[id] = cur
	}
}

// Snapshot is one immutable view of both tables.
type Snapshot struct {
	UWP   UWPModeItems
	Infos GUIDInfos
}

// Defaults returns the embedded tables.
func Defaults() (*Snapshot, error) {
	uwp, err := ParseUWPModeItems(bytes.NewReader(defaultUWPModeItems))
	if err != nil {
		return nil, err
	}
	infos, err := ParseGUIDInfos(bytes.NewReader(defaultGUIDInfos))
	if err != nil {
		return nil, err
	}
	return &Snapshot{UWP: uwp, Infos: infos}, nil
}

// UWPGUIDs lists the GUIDs registered for scene in document order. Items
// that do not parse as GUIDs are skipped.
func (s *Snapshot) UWPGUIDs(scene string) []uuid.UUID {
	if s == nil {
		return nil
	}
	var out []uuid.UUID
	for _, raw := range s.UWP[scene] {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Text is the display name of id.
func (s *Snapshot) Text(id uuid.UUID) (string, bool) {
	if s == nil {
		return "", false
	}
	info, ok := s.Infos[id]
	if !ok || info.Text == "" {
		return "", false
	}
	return info.Text, true
}

// UWPName is the package family of the packaged handler id.
func (s *Snapshot) UWPName(id uuid.UUID) (string, bool) {
	if s == nil {
		return "", false
	}
	info, ok := s.Infos[id]
	if !ok || info.UWPName == "" {
		return "", false
	}
	return info.UWPName, true
}

// FormatGUID renders id in registry form: braced, upper case.
func FormatGUID(id uuid.UUID) string {
	return "{" + strings.ToUpper(id.String()) + "}"
}
