package ids

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/idsgo/internal/ir"
)

// Print writes one line per non-empty leaf of d.
//
//	time                              FLT_1D [3]  [0 1 2]
//	profiles_1d[0]/grid/rho_tor_norm  FLT_1D [2]  [0 1]
func Print(w io.Writer, d *IDS) error {
	type line struct{ path, typ, value string }
	var lines []line
	width := 0
	err := WalkNonEmpty(d.root, func(_ []int, n Node) error {
		leaf, ok := n.(*Leaf)
		if !ok {
			return nil
		}
		meta := leaf.meta
		typ := ir.FormatDataType(meta.Type, meta.NDim)
		if meta.NDim > 0 {
			typ += fmt.Sprintf(" %v", leaf.Shape())
		}
		l := line{path: displayPath(leaf), typ: typ, value: fmt.Sprint(leafValue(leaf.value))}
		width = max(width, len(l.path))
		lines = append(lines, l)
		return nil
	})
	if err != nil {
		return err
	}
	for _, l := range lines {
		pad := strings.Repeat(" ", width-len(l.path)+2)
		if _, err := fmt.Fprintf(w, "%s%s%s  %s\n", l.path, pad, l.typ, l.value); err != nil {
			return err
		}
	}
	return nil
}
