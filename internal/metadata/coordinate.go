package metadata

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// Coordinate is the parsed rule for one dimension of a node.
//
// A specifier is a list of alternatives separated by " OR ". Each
// alternative is either an index rule ("1...N" for any size, "1...3" for an
// exact size of 3) or a reference to another quantity. Coordinates are
// immutable and interned by specifier string; compare them with ==.
type Coordinate struct {
	spec string

	// Size is the exact size required by a "1...<n>" rule, or 0.
	Size int
	// References are the quantities this dimension must agree with.
	References []Path
	// HasValidation is true when the coordinate declares any rule.
	HasValidation bool
	// HasAlternatives is true when more than one rule is declared; at most
	// one of them may be in use at a time.
	HasAlternatives bool
	// IsTimeCoordinate is true when any reference points at a time quantity.
	IsTimeCoordinate bool
}

// IndexSpec is the specifier of an unconstrained index dimension.
const IndexSpec = "1...N"

var coordinates = struct {
	sync.RWMutex
	m map[string]*Coordinate
}{m: make(map[string]*Coordinate)}

// ParseCoordinate returns the interned Coordinate for spec. Invalid
// fragments are ignored and logged at debug level.
func ParseCoordinate(spec string) *Coordinate {
	coordinates.RLock()
	c, ok := coordinates.m[spec]
	coordinates.RUnlock()
	if ok {
		return c
	}

	c = parseCoordinate(spec)

	coordinates.Lock()
	defer coordinates.Unlock()
	if existing, ok := coordinates.m[spec]; ok {
		return existing
	}
	coordinates.m[spec] = c
	return c
}

func parseCoordinate(spec string) *Coordinate {
	c := &Coordinate{spec: spec}
	hasSize := false
	for _, alt := range strings.Split(spec, " OR ") {
		if rest, ok := strings.CutPrefix(alt, "1..."); ok {
			if rest == "N" {
				continue
			}
			n, err := strconv.Atoi(rest)
			if err != nil || n < 1 {
				slog.Debug("ignoring invalid coordinate specifier", "spec", alt)
				continue
			}
			c.Size = n
			hasSize = true
			continue
		}
		if alt == "" {
			continue
		}
		p, err := ParsePath(alt)
		if err != nil {
			slog.Debug("ignoring invalid coordinate specifier", "spec", alt, "error", err)
			continue
		}
		c.References = append(c.References, p)
	}

	rules := len(c.References)
	if hasSize {
		rules++
	}
	c.HasValidation = rules > 0
	c.HasAlternatives = rules > 1
	for _, ref := range c.References {
		if ref.IsTimePath() {
			c.IsTimeCoordinate = true
			break
		}
	}
	return c
}

// String returns the specifier the Coordinate was parsed from.
func (c *Coordinate) String() string {
	return c.spec
}

// ReferenceStrings returns the references in declaration order, for messages.
func (c *Coordinate) ReferenceStrings() []string {
	out := make([]string, len(c.References))
	for i, ref := range c.References {
		out[i] = ref.String()
	}
	return out
}
