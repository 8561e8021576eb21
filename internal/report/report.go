// Package report walks every scene and renders what the shell will show,
// for the --report and --json modes.
package report

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"shellmenu/internal/dict"
	"shellmenu/internal/menu"
	"shellmenu/internal/model"
	"shellmenu/internal/selection"
)

// Row is one entry of a scene.
type Row struct {
	Kind          model.Kind `json:"kind"`
	Text          string     `json:"text"`
	Path          string     `json:"path,omitempty"`
	Command       string     `json:"command,omitempty"`
	GUID          string     `json:"guid,omitempty"`
	Enabled       bool       `json:"enabled"`
	Visible       bool       `json:"visible"`
	OnlyWithShift bool       `json:"onlyWithShift,omitempty"`
}

// Scene is the resolved state of one scene.
type Scene struct {
	Scene     model.Scene     `json:"scene"`
	Title     string          `json:"title"`
	Supported bool            `json:"supported"`
	BasePath  string          `json:"basePath,omitempty"`
	Rows      []Row           `json:"rows"`
	Shadowed  []menu.Shadowed `json:"shadowed,omitempty"`
}

// Result is the whole report.
type Result struct {
	Version  string  `json:"version"`
	Platform string  `json:"platform"`
	Scenes   []Scene `json:"scenes"`
}

// Collect loads scenes in order. An empty scenes slice means all of them.
func Collect(ld *menu.Loader, sel *selection.State, scenes []model.Scene) Result {
	if len(scenes) == 0 {
		scenes = model.AllScenes
	}
	c := ld.Catalog()
	res := Result{Version: model.Version, Platform: c.Caps().String()}
	for _, s := range scenes {
		sr := Scene{Scene: s, Title: s.Title(), Supported: c.Supported(s)}
		if sr.Supported {
			sr.BasePath, _ = c.ResolveBasePath(s, sel)
			for _, e := range ld.Load(s, sel) {
				sr.Rows = append(sr.Rows, rowOf(e))
			}
			for _, p := range shadowPaths(ld, s, sel) {
				sr.Shadowed = append(sr.Shadowed, ld.ShadowedHandlers(s, p)...)
			}
		}
		res.Scenes = append(res.Scenes, sr)
	}
	return res
}

func shadowPaths(ld *menu.Loader, s model.Scene, sel *selection.State) []string {
	if s == model.SceneDragDrop {
		return menu.DragDropBasePaths
	}
	c := ld.Catalog()
	var out []string
	if p, ok := c.ResolveBasePath(s, sel); ok {
		out = append(out, p)
	}
	return append(out, c.ExtraBasePaths(s, sel)...)
}

func rowOf(e *model.Entry) Row {
	r := Row{
		Kind:          e.Kind,
		Text:          e.Text,
		Path:          e.Path,
		Command:       e.Command,
		Enabled:       e.Enabled,
		Visible:       e.Visible,
		OnlyWithShift: e.OnlyWithShift,
	}
	if e.GUID != uuid.Nil {
		r.GUID = dict.FormatGUID(e.GUID)
	}
	return r
}

// Generate renders res as plain text. Verbose adds paths, commands and
// GUIDs under each row.
func Generate(res Result, verbose bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "shellmenu %s report (Windows %s)\n", res.Version, res.Platform)

	total, disabled, shadowed := 0, 0, 0
	for _, s := range res.Scenes {
		b.WriteString("\n")
		fmt.Fprintf(&b, "== %s ==\n", s.Title)
		if !s.Supported {
			b.WriteString("   (not available on this Windows version)\n")
			continue
		}
		if s.BasePath != "" {
			fmt.Fprintf(&b, "   %s\n", s.BasePath)
		}
		for _, r := range s.Rows {
			if !countable(r.Kind) {
				continue
			}
			total++
			mark := model.IconOK
			if !r.Enabled {
				mark = model.IconDisabled
				disabled++
			}
			fmt.Fprintf(&b, " %s %s %s", mark, rowIcon(r.Kind), r.Text)
			if r.OnlyWithShift {
				b.WriteString(" (shift)")
			}
			b.WriteString("\n")
			if verbose {
				writeDetail(&b, "path", r.Path)
				writeDetail(&b, "command", r.Command)
				writeDetail(&b, "guid", r.GUID)
			}
		}
		for _, sh := range s.Shadowed {
			shadowed++
			fmt.Fprintf(&b, "   ⚠️  %s is hidden by %s\n", sh.Dropped.Path(), sh.Kept.Path())
		}
	}

	fmt.Fprintf(&b, "\n%d items, %d disabled", total, disabled)
	if shadowed > 0 {
		fmt.Fprintf(&b, ", %d shadowed registrations", shadowed)
	}
	b.WriteString("\n")
	return b.String()
}

func writeDetail(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "       %-8s %s\n", label+":", value)
	}
}

// countable excludes the pseudo rows that exist only to edit the selection.
func countable(k model.Kind) bool {
	switch k {
	case model.KindNew, model.KindSelector, model.KindPerceivedType:
		return false
	}
	return true
}

func rowIcon(k model.Kind) string {
	return model.Icon(&model.Entry{Kind: k})
}
