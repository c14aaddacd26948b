// Package command builds the install command shown next to the picker.
package command

import (
	"fmt"

	"github.com/pders01/packpick/internal/selection"
)

// Mode selects which installer the command targets
type Mode string

const (
	ModeCurl Mode = "curl"
	ModeBrew Mode = "brew"
)

// Modes lists the supported install modes
var Modes = []Mode{ModeCurl, ModeBrew}

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCurl, ModeBrew:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid install mode %q (use curl or brew)", s)
	}
}

type template struct {
	base      string
	allFlag   string
	packsFlag string
}

var templates = map[Mode]template{
	ModeCurl: {
		base:      "curl -fsSL https://raw.githubusercontent.com/PeonPing/peon-ping/main/install.sh | bash",
		allFlag:   " -s -- --all",
		packsFlag: " -s -- --packs=",
	},
	ModeBrew: {
		base:      "brew install PeonPing/tap/peon-ping && peon-ping-setup",
		allFlag:   " --all",
		packsFlag: " --packs=",
	},
}

// Build returns the install command for sel. An empty or default selection
// installs the defaults, a selection equal to the registry installs
// everything, anything else lists the packs in sorted order. Unknown modes
// fall back to curl.
func Build(sel, registry, defaults selection.Set, mode Mode) string {
	tpl, ok := templates[mode]
	if !ok {
		tpl = templates[ModeCurl]
	}

	switch {
	case sel.Equal(defaults), sel.Len() == 0:
		return tpl.base
	case sel.Equal(registry):
		return tpl.base + tpl.allFlag
	default:
		return tpl.base + tpl.packsFlag + sel.Join(",")
	}
}

// Fallback returns the plain install command, usable without the registry
func Fallback(mode Mode) string {
	tpl, ok := templates[mode]
	if !ok {
		tpl = templates[ModeCurl]
	}
	return tpl.base
}
