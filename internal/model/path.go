package model

import "strings"

// Base paths of the fixed scenes.
const (
	MenuPathFile              = `HKEY_CLASSES_ROOT\*`
	MenuPathFolder            = `HKEY_CLASSES_ROOT\Folder`
	MenuPathDirectory         = `HKEY_CLASSES_ROOT\Directory`
	MenuPathBackground        = `HKEY_CLASSES_ROOT\Directory\Background`
	MenuPathDesktop           = `HKEY_CLASSES_ROOT\DesktopBackground`
	MenuPathDrive             = `HKEY_CLASSES_ROOT\Drive`
	MenuPathAllObjects        = `HKEY_CLASSES_ROOT\AllFilesystemObjects`
	MenuPathComputer          = `HKEY_CLASSES_ROOT\CLSID\{20D04FE0-3AEA-1069-A2D8-08002B30309D}`
	MenuPathRecycleBin        = `HKEY_CLASSES_ROOT\CLSID\{645FF040-5081-101B-9F08-00AA002F954E}`
	MenuPathLibrary           = `HKEY_CLASSES_ROOT\LibraryFolder`
	MenuPathLibraryBackground = `HKEY_CLASSES_ROOT\LibraryFolder\Background`
	MenuPathLibraryUser       = `HKEY_CLASSES_ROOT\UserLibraryFolder`
	MenuPathUwpLnk            = `HKEY_CLASSES_ROOT\Launcher.ImmersiveApplication`
	MenuPathUnknown           = `HKEY_CLASSES_ROOT\Unknown`

	// SysFileAssPath is the parent of per-extension and per-type associations.
	SysFileAssPath = `HKEY_CLASSES_ROOT\SystemFileAssociations`
	// ClassesRoot prefixes extension and ProgID nodes.
	ClassesRoot = `HKEY_CLASSES_ROOT`

	// CommandStorePath holds shared verbs referenced by other menus.
	CommandStorePath = `HKEY_LOCAL_MACHINE\SOFTWARE\Microsoft\Windows\CurrentVersion\Explorer\CommandStore\shell`
	// FileExtsPath holds per-user "open with" choices.
	FileExtsPath = `HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Explorer\FileExts`
	// ExplorerPolicyPath holds the visibility policies used by rule entries.
	ExplorerPolicyPath = `HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Policies\Explorer`
	// RegeditLastKeyPath records the key regedit last showed.
	RegeditLastKeyPath = `HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Applets\Regedit`
)

// Sub-namespaces under a base path.
const (
	ShellKey   = "shell"
	ShellExKey = "ShellEx"
	CommandKey = "command"

	// PerceivedTypeValue names the value that stores an extension's
	// perceived type under its class node.
	PerceivedTypeValue = "PerceivedType"
)

// Extensions with dedicated scenes.
const (
	ExtLnk = ".lnk"
	ExtExe = ".exe"
)

// ShellPath is the command-list sub-namespace of a base path.
func ShellPath(basePath string) string { return basePath + `\` + ShellKey }

// ShellExPath is the extension-handler root of a base path.
func ShellExPath(basePath string) string { return basePath + `\` + ShellExKey }

// SysAssPath namespaces a type name under SystemFileAssociations.
func SysAssPath(typeName string) string { return SysFileAssPath + `\` + typeName }

// ClassPath namespaces a name directly under HKEY_CLASSES_ROOT.
func ClassPath(name string) string { return ClassesRoot + `\` + name }

// DirectoryTypes are the fixed directory-type tokens.
var DirectoryTypes = []string{"Document", "Image", "Video", "Audio"}

// PerceivedTypes are the fixed perceived-type tokens. Index 0 means "none".
var PerceivedTypes = []string{"", "Text", "Document", "Image", "Video", "Audio", "Compressed", "System"}

var directoryTypeLabels = []string{"Document directory", "Image directory", "Video directory", "Audio directory"}

var perceivedTypeLabels = []string{
	"No perceived type", "Text file", "Document file", "Image file",
	"Video file", "Audio file", "Compressed file", "System file",
}

// DirectoryTypeIndex finds a directory-type token, ignoring case.
func DirectoryTypeIndex(token string) int {
	for i, t := range DirectoryTypes {
		if strings.EqualFold(t, token) {
			return i
		}
	}
	return -1
}

// PerceivedTypeIndex finds a perceived-type token, ignoring case. The empty
// token maps to index 0.
func PerceivedTypeIndex(token string) int {
	for i, t := range PerceivedTypes {
		if strings.EqualFold(t, token) {
			return i
		}
	}
	return -1
}

// DirectoryTypeLabel is the display name of a directory type, "" if unknown.
func DirectoryTypeLabel(token string) string {
	if i := DirectoryTypeIndex(token); i >= 0 {
		return directoryTypeLabels[i]
	}
	return ""
}

// PerceivedTypeLabel is the display name of a perceived type. Values outside
// the table, such as "application", render as themselves.
func PerceivedTypeLabel(token string) string {
	if i := PerceivedTypeIndex(token); i > 0 {
		return perceivedTypeLabels[i]
	} else if i < 0 {
		return token
	}
	return perceivedTypeLabels[0]
}

// PerceivedTypeLabels returns the selectable labels in token order.
func PerceivedTypeLabels() []string { return append([]string(nil), perceivedTypeLabels...) }

// DirectoryTypeLabels returns the selectable labels in token order.
func DirectoryTypeLabels() []string { return append([]string(nil), directoryTypeLabels...) }
