package model

// Row markers used by the text presentations.
// Single-width characters keep terminal columns aligned.
const (
	IconCommand  = "›"
	IconHandler  = "◇"
	IconFolded   = "▸"
	IconUnfolded = "▾"
	IconRule     = "⚑"
	IconUWP      = "◆"
	IconNew      = "+"
	IconSelect   = "?"
	IconJump     = "→"
	IconDisabled = "✗"
	IconOK       = " "
)

// Icon returns the marker for an entry.
func Icon(e *Entry) string {
	switch e.Kind {
	case KindGroup:
		if e.Group != nil && e.Group.Folded {
			return IconFolded
		}
		return IconUnfolded
	case KindHandler:
		return IconHandler
	case KindRule:
		return IconRule
	case KindUWPMode:
		return IconUWP
	case KindNew:
		return IconNew
	case KindSelector, KindPerceivedType:
		return IconSelect
	case KindJump:
		return IconJump
	default:
		return IconCommand
	}
}
