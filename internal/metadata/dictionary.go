package metadata

import (
	"fmt"
	"sort"

	"github.com/roach88/idsgo/internal/ir"
)

// Dictionary is the set of IDS definitions of one Data Dictionary version.
type Dictionary struct {
	Version ir.DDVersion
	trees   map[string]*Tree
}

// NewDictionary groups trees of the same version.
func NewDictionary(version ir.DDVersion, trees ...*Tree) (*Dictionary, error) {
	d := &Dictionary{Version: version, trees: make(map[string]*Tree, len(trees))}
	for _, t := range trees {
		if t.Version() != version {
			return nil, fmt.Errorf("IDS %s has version %s, dictionary is %s", t.Name(), t.Version(), version)
		}
		if _, dup := d.trees[t.Name()]; dup {
			return nil, fmt.Errorf("duplicate IDS %s", t.Name())
		}
		d.trees[t.Name()] = t
	}
	return d, nil
}

// IDS returns the definition of the named IDS.
func (d *Dictionary) IDS(name string) (*Tree, error) {
	t, ok := d.trees[name]
	if !ok {
		return nil, fmt.Errorf("IDS %q not found in data dictionary %s", name, d.Version)
	}
	return t, nil
}

// Names returns the IDS names in sorted order.
func (d *Dictionary) Names() []string {
	names := make([]string, 0, len(d.trees))
	for name := range d.trees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
