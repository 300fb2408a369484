package compiler

import (
	"fmt"
	"path"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
)

// CompileDictionary checks v against #Dictionary and builds one metadata
// tree per IDS it declares.
//
// The CUE value should be the dictionary struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`dictionary: { version: "3.39.0", ids: { ... } }`)
//	dd, err := CompileDictionary(v.LookupPath(cue.ParsePath("dictionary")))
func CompileDictionary(v cue.Value) (*metadata.Dictionary, error) {
	if !v.Exists() {
		return nil, &CompileError{
			Field:   "dictionary",
			Message: "dictionary is required",
			Pos:     v.Pos(),
		}
	}
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	if err := checkSchema(v, "#Dictionary"); err != nil {
		return nil, err
	}

	versionVal := v.LookupPath(cue.ParsePath("version"))
	raw, err := versionVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	version, err := ir.ParseDDVersion(raw)
	if err != nil {
		return nil, &CompileError{Field: "version", Message: err.Error(), Pos: versionVal.Pos()}
	}

	iter, err := v.LookupPath(cue.ParsePath("ids")).Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var trees []*metadata.Tree
	for iter.Next() {
		tree, err := CompileIDS(version, iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}

	dd, err := metadata.NewDictionary(version, trees...)
	if err != nil {
		return nil, &CompileError{Field: "ids", Message: err.Error(), Pos: v.Pos()}
	}
	return dd, nil
}

// CompileIDS builds the metadata tree of a single IDS definition. Fields are
// added in declaration order.
func CompileIDS(version ir.DDVersion, name string, v cue.Value) (*metadata.Tree, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := metadata.NodeSpec{Name: name}
	var err error
	if root.Documentation, err = optionalString(v, "documentation"); err != nil {
		return nil, err
	}
	if root.Lifecycle, err = optionalString(v, "lifecycle"); err != nil {
		return nil, err
	}

	b, err := metadata.NewBuilder(version, root)
	if err != nil {
		return nil, &CompileError{Field: name, Message: err.Error(), Pos: v.Pos()}
	}

	fields := v.LookupPath(cue.ParsePath("fields"))
	if !fields.Exists() {
		return nil, &CompileError{
			Field:   name + ".fields",
			Message: "an IDS must declare its fields",
			Pos:     v.Pos(),
		}
	}
	if err := compileFields(b, name, "", fields); err != nil {
		return nil, err
	}

	tree, err := b.Build()
	if err != nil {
		return nil, &CompileError{Field: name, Message: err.Error(), Pos: v.Pos()}
	}
	return tree, nil
}

// compileFields adds the children declared in v below parent, recursing
// into nested "fields" blocks.
func compileFields(b *metadata.Builder, ids, parent string, v cue.Value) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		fv := iter.Value()
		nodePath := path.Join(parent, name)

		spec, err := parseField(name, fv)
		if err != nil {
			return err
		}
		if _, err := b.Add(parent, spec); err != nil {
			return &CompileError{
				Field:   ids + "/" + nodePath,
				Message: err.Error(),
				Pos:     fv.Pos(),
			}
		}

		children := fv.LookupPath(cue.ParsePath("fields"))
		if !children.Exists() {
			continue
		}
		if err := compileFields(b, ids, nodePath, children); err != nil {
			return err
		}
	}
	return nil
}

// parseField reads one #Field into a NodeSpec.
func parseField(name string, v cue.Value) (metadata.NodeSpec, error) {
	spec := metadata.NodeSpec{Name: name}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return spec, &CompileError{
			Field:   name + ".type",
			Message: "type is required",
			Pos:     v.Pos(),
		}
	}
	dataType, err := typeVal.String()
	if err != nil {
		return spec, formatCUEError(err)
	}
	spec.DataType = dataType

	if spec.Documentation, err = optionalString(v, "documentation"); err != nil {
		return spec, err
	}
	if spec.Units, err = optionalString(v, "units"); err != nil {
		return spec, err
	}
	if spec.Lifecycle, err = optionalString(v, "lifecycle"); err != nil {
		return spec, err
	}
	if spec.Coordinates, err = optionalStrings(v, "coordinates"); err != nil {
		return spec, err
	}
	if spec.CoordinatesSameAs, err = optionalStrings(v, "coordinates_same_as"); err != nil {
		return spec, err
	}
	if spec.AlternativeCoordinate1, err = optionalStrings(v, "alternative_coordinate1"); err != nil {
		return spec, err
	}
	return spec, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalStrings(v cue.Value, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// checkSchema unifies v with the named definition of Schema and requires
// the result to be concrete. Trees are built from v itself so that field
// order follows the source.
func checkSchema(v cue.Value, definition string) error {
	schema := v.Context().CompileString(Schema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return formatCUEError(err)
	}
	checked := schema.LookupPath(cue.ParsePath(definition)).Unify(v)
	if err := checked.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// CompileError represents a compilation error with position info.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
