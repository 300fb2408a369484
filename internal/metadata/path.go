package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// IndexKind classifies the optional index attached to one path part.
type IndexKind uint8

const (
	// IndexNone means the part carries no index, e.g. "grid".
	IndexNone IndexKind = iota
	// IndexDummy is a placeholder bound to the resolving node's own
	// position in that array of structures, e.g. "profiles_1d(itime)".
	IndexDummy
	// IndexLiteral selects a fixed element, e.g. "channel(2)". Literal
	// indices are 1-based in the text and 0-based in PathPart.Index.
	IndexLiteral
)

// PathPart is one "/"-separated component of a Path.
type PathPart struct {
	Name  string
	Kind  IndexKind
	Dummy string
	Index int
}

func (p PathPart) String() string {
	switch p.Kind {
	case IndexDummy:
		return p.Name + "(" + p.Dummy + ")"
	case IndexLiteral:
		return p.Name + "(" + strconv.Itoa(p.Index+1) + ")"
	}
	return p.Name
}

// Path is a parsed coordinate reference such as
// "profiles_1d(itime)/grid/rho_tor_norm" or "../time".
//
// Absolute paths start at the document root. Relative paths start with one
// or more ".." parts; each climbs one structure up from the structure that
// contains the node being resolved.
type Path struct {
	up    int
	parts []PathPart
}

// ParsePath parses a path expression.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, fmt.Errorf("empty path")
	}
	var p Path
	for i, raw := range strings.Split(s, "/") {
		if raw == ".." {
			if len(p.parts) > 0 {
				return Path{}, fmt.Errorf("path %q: \"..\" only allowed as leading part", s)
			}
			p.up++
			continue
		}
		part, err := parsePart(raw)
		if err != nil {
			return Path{}, fmt.Errorf("path %q part %d: %w", s, i, err)
		}
		p.parts = append(p.parts, part)
	}
	if len(p.parts) == 0 {
		return Path{}, fmt.Errorf("path %q has no named parts", s)
	}
	return p, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func parsePart(raw string) (PathPart, error) {
	name, index, hasIndex := strings.Cut(raw, "(")
	if !isIdentifier(name) {
		return PathPart{}, fmt.Errorf("invalid name %q", name)
	}
	part := PathPart{Name: name}
	if !hasIndex {
		return part, nil
	}
	index, ok := strings.CutSuffix(index, ")")
	if !ok || index == "" {
		return PathPart{}, fmt.Errorf("unterminated index in %q", raw)
	}
	if n, err := strconv.Atoi(index); err == nil {
		if n < 1 {
			return PathPart{}, fmt.Errorf("index %d out of range: indices start at 1", n)
		}
		part.Kind = IndexLiteral
		part.Index = n - 1
		return part, nil
	}
	if !isIdentifier(index) {
		return PathPart{}, fmt.Errorf("invalid index %q", index)
	}
	part.Kind = IndexDummy
	part.Dummy = index
	return part, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Parts returns the named parts, excluding leading "..".
func (p Path) Parts() []PathPart {
	return p.parts
}

// Up returns the number of leading ".." parts.
func (p Path) Up() int {
	return p.up
}

// IsRelative reports whether the path starts with "..".
func (p Path) IsRelative() bool {
	return p.up > 0
}

// IsZero reports whether p is the zero Path.
func (p Path) IsZero() bool {
	return len(p.parts) == 0
}

// IsTimePath reports whether the last part is named "time".
func (p Path) IsTimePath() bool {
	return len(p.parts) > 0 && p.parts[len(p.parts)-1].Name == "time"
}

// SchemaPath returns the slash-joined names without indices, the form used
// by Tree.Lookup.
func (p Path) SchemaPath() string {
	names := make([]string, len(p.parts))
	for i, part := range p.parts {
		names[i] = part.Name
	}
	return strings.Join(names, "/")
}

// Dotted returns the variable-name form: names joined with ".".
func (p Path) Dotted() string {
	return strings.ReplaceAll(p.SchemaPath(), "/", ".")
}

// IsAncestorOf reports whether schemaPath (a slash-separated path without
// indices) is a strict prefix of p. Relative paths have no ancestors.
//
//	MustParsePath("profiles_1d(itime)/time").IsAncestorOf("profiles_1d") // true
//	MustParsePath("profiles_1d(itime)/time").IsAncestorOf("profiles")    // false
func (p Path) IsAncestorOf(schemaPath string) bool {
	if p.up > 0 || schemaPath == "" {
		return false
	}
	names := strings.Split(schemaPath, "/")
	if len(names) >= len(p.parts) {
		return false
	}
	for i, name := range names {
		if p.parts[i].Name != name {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	var b strings.Builder
	for i := 0; i < p.up; i++ {
		b.WriteString("../")
	}
	for i, part := range p.parts {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(part.String())
	}
	return b.String()
}

// DottedPath converts a slash-separated schema path into a variable name.
func DottedPath(schemaPath string) string {
	return strings.ReplaceAll(schemaPath, "/", ".")
}

// SlashPath converts a variable name back into a schema path.
func SlashPath(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "/")
}
