package queryir

// Table names.
const (
	TableEntries   = "entries"
	TableVariables = "variables"
)

// fieldKind is the Go type a field compares against.
type fieldKind int

const (
	stringField fieldKind = iota
	intField
)

// fields lists the filterable columns of each table.
var fields = map[string]map[string]fieldKind{
	TableEntries: {
		"ids_name":     stringField,
		"occurrence":   intField,
		"dd_version":   stringField,
		"content_hash": stringField,
	},
	TableVariables: {
		"name": stringField,
		"kind": stringField,
	},
}

// Query represents an abstract query over the entry catalog.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Select represents access to one table with filtering.
//
//	SELECT ... FROM <from> WHERE <filter>
type Select struct {
	From   string    // TableEntries or TableVariables
	Filter Predicate // WHERE conditions (nil = no filter)
}

func (Select) queryNode() {}

// Join keeps the rows of Left (a Select on entries) that own at least one
// row of Right (a Select on variables). Each entry appears once.
type Join struct {
	Left  Query
	Right Query
}

func (Join) queryNode() {}

// Equals represents a field-equals-literal predicate.
//
//	<field> = <value>
//
// Value is a string, or an int for occurrence.
type Equals struct {
	Field string
	Value any
}

func (Equals) predicateNode() {}

// And represents a conjunction of predicates. An empty And is true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Entries returns a Select on entries with the conjunction of preds.
func Entries(preds ...Predicate) Select {
	return Select{From: TableEntries, Filter: conjunction(preds)}
}

// Variables returns a Select on variables with the conjunction of preds.
func Variables(preds ...Predicate) Select {
	return Select{From: TableVariables, Filter: conjunction(preds)}
}

func conjunction(preds []Predicate) Predicate {
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	}
	return And{Predicates: preds}
}
