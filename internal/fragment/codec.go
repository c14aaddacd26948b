// Package fragment maps a selection to and from the shareable URL fragment
// (#packs=all, #packs=none, #packs=a,b,c).
package fragment

import (
	"net/url"
	"strings"

	"github.com/pders01/packpick/internal/selection"
)

// Prefix introduces a pack selection inside a URL fragment
const Prefix = "packs="

const (
	allValue  = "all"
	noneValue = "none"
)

// Kind identifies the shape of a decoded fragment
type Kind int

const (
	// KindAbsent means the fragment carries no selection; keep the default
	KindAbsent Kind = iota
	KindNone
	KindAll
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNone:
		return "none"
	case KindAll:
		return "all"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Decoded is a fragment parsed before the registry is known. Identifiers are
// validated later by Resolve.
type Decoded struct {
	Kind Kind
	IDs  []string
}

// Decode parses a fragment ("#packs=..." or "packs=...") or a full URL
// carrying one
func Decode(hash string) Decoded {
	if i := strings.IndexByte(hash, '#'); i >= 0 {
		hash = hash[i+1:]
	}
	if strings.Contains(hash, "%") {
		if unescaped, err := url.PathUnescape(hash); err == nil {
			hash = unescaped
		}
	}
	if !strings.HasPrefix(hash, Prefix) {
		return Decoded{Kind: KindAbsent}
	}

	value := strings.TrimPrefix(hash, Prefix)
	switch value {
	case noneValue:
		return Decoded{Kind: KindNone}
	case allValue:
		return Decoded{Kind: KindAll}
	}

	var ids []string
	for _, tok := range strings.Split(value, ",") {
		if tok != "" {
			ids = append(ids, tok)
		}
	}
	return Decoded{Kind: KindList, IDs: ids}
}

// Resolve turns the decoded fragment into a selection once the registry
// identifiers are known. Unknown identifiers are dropped silently. The
// boolean is false for an absent fragment.
func (d Decoded) Resolve(known selection.Set) (selection.Set, bool) {
	switch d.Kind {
	case KindNone:
		return selection.NewSet(), true
	case KindAll:
		return known, true
	case KindList:
		return selection.NewSet(d.IDs...).Intersect(known), true
	default:
		return selection.Set{}, false
	}
}

// Encoding is the fragment to publish for a selection. Clear means the
// fragment should be removed to restore the bare URL.
type Encoding struct {
	Clear bool
	Value string
}

// Fragment renders the encoding with its leading '#', or "" when cleared
func (e Encoding) Fragment() string {
	if e.Clear {
		return ""
	}
	return "#" + e.Value
}

// Encode derives the fragment for sel. The default selection takes priority
// over the none and all shortcuts so the common case yields the bare URL.
func Encode(sel, registry selection.Set) Encoding {
	switch {
	case sel.Equal(selection.Defaults()):
		return Encoding{Clear: true}
	case sel.Len() == 0:
		return Encoding{Value: Prefix + noneValue}
	case sel.Equal(registry):
		return Encoding{Value: Prefix + allValue}
	default:
		return Encoding{Value: Prefix + sel.Join(",")}
	}
}

// QueryValue is the value half of an encoding, for use in query strings
// ("" when cleared)
func (e Encoding) QueryValue() string {
	if e.Clear {
		return ""
	}
	return strings.TrimPrefix(e.Value, Prefix)
}
