package coordinate

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/idsgo/internal/ids"
	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
)

// Validator checks the coordinates of documents.
type Validator struct {
	opts   []Option
	logger *slog.Logger
	quirks Quirks
}

// NewValidator returns a Validator.
func NewValidator(opts ...Option) *Validator {
	cfg := newConfig(opts)
	return &Validator{opts: opts, logger: cfg.logger, quirks: cfg.quirks}
}

// Validate checks doc with a default Validator.
func Validate(doc *ids.IDS, opts ...Option) error {
	return NewValidator(opts...).Validate(doc)
}

// Validate checks the time mode of doc and then every dimension of every
// non-empty leaf and array of structures. It returns the first failure as
// a *ValidationError. Coordinate metadata that cannot be resolved and is
// not covered by a quirk fails too; the *LookupError is its cause.
func (v *Validator) Validate(doc *ids.IDS) error {
	mode := doc.TimeMode()
	if !mode.Valid() {
		return &ValidationError{
			Path: ir.TimeModePath, Dim: -1,
			Message: fmt.Sprintf("invalid value for %s: %d", ir.TimeModePath, int32(mode)),
		}
	}
	if doc.Tree().Root().Lifecycle == ir.LifecycleConstant && mode != ir.TimeModeIndependent {
		return &ValidationError{
			Path: ir.TimeModePath, Dim: -1,
			Message: fmt.Sprintf("invalid value for %s: %d: the IDS is constant, therefore it must be %d (%s)",
				ir.TimeModePath, int32(mode), int32(ir.TimeModeIndependent), ir.TimeModeIndependent),
		}
	}

	w := &walker{
		Validator: v,
		doc:       doc,
		mode:      mode,
		resolver:  NewResolver(doc, v.opts...),
	}
	return ids.WalkNonEmpty(doc.Root(), w.visit)
}

type walker struct {
	*Validator
	doc      *ids.IDS
	mode     ir.TimeMode
	resolver *Resolver
}

func (w *walker) visit(aos []int, n ids.Node) error {
	meta := n.Meta()
	if w.mode == ir.TimeModeIndependent && meta.Lifecycle == ir.LifecycleDynamic {
		return &ValidationError{
			Path: meta.Path, Dim: -1, AoS: w.positions(meta, aos),
			Message: fmt.Sprintf("dynamic element %q is not allowed in %s time mode", meta.Path, ir.TimeModeIndependent),
		}
	}
	if _, ok := n.(*ids.Structure); ok {
		return nil
	}
	if err := w.checkCoordinates(n, aos); err != nil {
		return err
	}
	return w.checkSameAs(n, aos)
}

func (w *walker) checkCoordinates(n ids.Node, aos []int) error {
	meta := n.Meta()
	shape := n.Shape()
	for dim, coord := range meta.Coordinates {
		if !coord.HasValidation {
			continue
		}
		if coord.Size > 0 {
			if shape[dim] == coord.Size {
				continue
			}
			if !coord.HasAlternatives {
				return w.sizeError(n, aos, dim, coord.Size, "")
			}
			// The fixed size is one alternative: fall through to the references.
		}

		resolved, err := w.resolver.Resolve(n, dim)
		if err != nil {
			if err := w.capture(err, n, aos, dim, coord); err != nil {
				return err
			}
			continue
		}

		var expected int
		var coordinatePath string
		switch res := resolved.(type) {
		case Index:
			if coord.Size > 0 {
				return w.sizeError(n, aos, dim, coord.Size, "")
			}
			expected = res.Size
		case Sequence:
			if coord.Size > 0 {
				return w.sizeError(n, aos, dim, coord.Size, "")
			}
			if i, empty := res.FirstEmpty(); empty {
				return &ValidationError{
					Path: meta.Path, Dim: dim, AoS: w.positions(meta, aos),
					Message: fmt.Sprintf("coordinate %q of element %q is empty",
						elementPath(meta.Path, i, res.Path), meta.Path),
				}
			}
			expected, coordinatePath = res.Len(), res.Path.SchemaPath()
		case Quantity:
			expected, coordinatePath = res.Len(), res.Path()
		}
		if shape[dim] != expected {
			return w.sizeError(n, aos, dim, expected, coordinatePath)
		}
	}
	return nil
}

func (w *walker) checkSameAs(n ids.Node, aos []int) error {
	meta := n.Meta()
	shape := n.Shape()
	for dim, sameAs := range meta.CoordinatesSameAs {
		if !sameAs.HasValidation || len(sameAs.References) == 0 {
			continue
		}
		other, err := w.resolver.goTo(sameAs.References[0], n, n, dim, sameAs)
		if err == nil {
			if len(other.Shape()) <= dim {
				err = w.resolver.lookupError(KindNotQuantity, n, dim, sameAs, nil,
					"coordinate %s of dimension %d of element %q has only %d dimensions",
					sameAs.References[0], dim+1, meta.Path, len(other.Shape()))
			}
		}
		if err != nil {
			if err := w.capture(err, n, aos, dim, sameAs); err != nil {
				return err
			}
			continue
		}
		if expected := other.Shape()[dim]; shape[dim] != expected {
			return w.sizeError(n, aos, dim, expected, other.Meta().Path)
		}
	}
	return nil
}

// capture decides what a lookup failure means for validation. It returns
// nil when the failure is ignored.
func (w *walker) capture(err error, n ids.Node, aos []int, dim int, coord *metadata.Coordinate) error {
	meta := n.Meta()
	var le *LookupError
	if !errors.As(err, &le) {
		return err
	}
	switch le.Kind {
	case KindAlternatives, KindTimeMode:
		return &ValidationError{Path: meta.Path, Dim: dim, AoS: w.positions(meta, aos), Message: le.Message, Err: le}
	case KindInvalidIndex:
		return &ValidationError{
			Path: meta.Path, Dim: dim, AoS: w.positions(meta, aos), Err: le,
			Message: fmt.Sprintf("dimension %d of element %q has an invalid index provided for coordinate %s",
				dim+1, meta.Path, strings.Join(coord.ReferenceStrings(), " OR ")),
		}
	case KindOutsideTree:
		w.logger.Debug("ignored coordinate outside the element's tree",
			"element", le.Path, "dimension", dim+1, "coordinate", coord.String())
		return nil
	}
	if quirk, ok := w.quirks.Match(w.doc.Version(), w.doc.Name(), meta.Path, le.Kind); ok {
		w.logger.Warn("ignored coordinate lookup failure",
			"element", le.Path, "dimension", dim+1, "coordinate", coord.String(),
			"reason", quirk.Reason, "error", le.Message)
		return nil
	}
	return &ValidationError{Path: meta.Path, Dim: dim, AoS: w.positions(meta, aos), Message: le.Message, Err: le}
}

func (w *walker) sizeError(n ids.Node, aos []int, dim, expected int, coordinate string) *ValidationError {
	meta := n.Meta()
	return &ValidationError{
		Path:       meta.Path,
		Dim:        dim,
		Actual:     n.Shape()[dim],
		Expected:   expected,
		Coordinate: coordinate,
		AoS:        w.positions(meta, aos),
	}
}

func (w *walker) positions(meta *metadata.Node, aos []int) []Position {
	arrays := w.doc.Tree().AoSAncestors(meta)
	out := make([]Position, 0, len(aos))
	for i, idx := range aos {
		if i < len(arrays) {
			out = append(out, Position{Path: arrays[i].Path, Index: idx})
		}
	}
	return out
}

// elementPath renders the coordinate of element i of the array at
// arrayPath: "profiles_1d[2]/time".
func elementPath(arrayPath string, i int, ref metadata.Path) string {
	rest := strings.TrimPrefix(ref.SchemaPath(), arrayPath+"/")
	return fmt.Sprintf("%s[%d]/%s", arrayPath, i, rest)
}
