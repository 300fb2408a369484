package coordinate

import (
	"path"
	"slices"
	"strings"

	"github.com/roach88/idsgo/internal/ir"
)

// Quirk exempts a class of coordinate lookup failures from validation.
// Known Data Dictionary releases carry coordinate metadata that points at
// structures or at nodes that do not exist; validating documents of those
// releases must not fail on them.
type Quirk struct {
	// MinVersion and MaxVersion bound the affected releases, inclusive.
	// An empty MinVersion is unbounded.
	MinVersion ir.DDVersion
	MaxVersion ir.DDVersion
	// IDS is a glob over IDS names.
	IDS string
	// Path is a glob over schema paths of the node being validated, with
	// "*" matching within one part and "**" matching any number of parts.
	Path string
	// Kinds restricts the quirk to these lookup failures.
	Kinds  []LookupKind
	Reason string
}

// Quirks is an ordered quirk table; the first match wins.
type Quirks []Quirk

// LegacyQuirks is the default table. Each entry names the nodes of one IDS
// whose coordinate metadata is wrong in releases up to 3.38.1; failures
// elsewhere are reported.
var LegacyQuirks = Quirks{
	{
		MaxVersion: "3.38.1",
		IDS:        "distributions",
		Path:       "distribution/profiles_2d/*",
		Kinds:      []LookupKind{KindNotQuantity},
		Reason:     "profiles_2d quantities name the grid structure as their coordinate",
	},
	{
		MaxVersion: "3.38.1",
		IDS:        "equilibrium",
		Path:       "time_slice/coordinate_system/*",
		Kinds:      []LookupKind{KindNotQuantity},
		Reason:     "coordinate_system quantities name the grid structure as their coordinate",
	},
	{
		MaxVersion: "3.38.1",
		IDS:        "pf_active",
		Path:       "coil/element/geometry/*",
		Kinds:      []LookupKind{KindNotFound},
		Reason:     "element geometry refers to an outline node that was never defined",
	},
}

// Match returns the first quirk covering a lookup failure of the given
// kind on nodePath in IDS idsName of the given version.
func (q Quirks) Match(version ir.DDVersion, idsName, nodePath string, kind LookupKind) (Quirk, bool) {
	if !version.Valid() {
		return Quirk{}, false
	}
	for _, quirk := range q {
		if !slices.Contains(quirk.Kinds, kind) {
			continue
		}
		if quirk.MinVersion != "" && version.Compare(quirk.MinVersion) < 0 {
			continue
		}
		if quirk.MaxVersion != "" && !version.AtMost(quirk.MaxVersion) {
			continue
		}
		if ok, _ := path.Match(quirk.IDS, idsName); !ok {
			continue
		}
		if !matchParts(strings.Split(quirk.Path, "/"), strings.Split(nodePath, "/")) {
			continue
		}
		return quirk, true
	}
	return Quirk{}, false
}

func matchParts(pattern, parts []string) bool {
	if len(pattern) == 0 {
		return len(parts) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(parts); i++ {
			if matchParts(pattern[1:], parts[i:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	if ok, _ := path.Match(pattern[0], parts[0]); !ok {
		return false
	}
	return matchParts(pattern[1:], parts[1:])
}
