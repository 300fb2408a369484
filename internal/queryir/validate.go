package queryir

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// QueryError reports a query that cannot be compiled.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return "invalid query: " + e.Message
}

// Validate checks that q selects entries and that every predicate names a
// field of its table with a value of the field's type.
//
// Validate is a pure function with no side effects.
func Validate(q Query) error {
	switch query := q.(type) {
	case Select:
		return validateSelect(query, TableEntries)
	case *Select:
		if query == nil {
			return &QueryError{Message: "nil query"}
		}
		return validateSelect(*query, TableEntries)
	case Join:
		return validateJoin(query)
	case *Join:
		if query == nil {
			return &QueryError{Message: "nil query"}
		}
		return validateJoin(*query)
	case nil:
		return &QueryError{Message: "nil query"}
	default:
		return &QueryError{Message: fmt.Sprintf("unknown query type %T", q)}
	}
}

func validateJoin(j Join) error {
	left, ok := AsSelect(j.Left)
	if !ok {
		return &QueryError{Message: "join left must be a Select"}
	}
	if err := validateSelect(left, TableEntries); err != nil {
		return err
	}
	right, ok := AsSelect(j.Right)
	if !ok {
		return &QueryError{Message: "join right must be a Select"}
	}
	return validateSelect(right, TableVariables)
}

func validateSelect(sel Select, table string) error {
	if sel.From != table {
		return &QueryError{Message: fmt.Sprintf("expected a Select on %s, got %q", table, sel.From)}
	}
	return validatePredicate(sel.Filter, table)
}

func validatePredicate(p Predicate, table string) error {
	switch pred := p.(type) {
	case nil:
		return nil
	case Equals:
		return validateEquals(pred, table)
	case *Equals:
		return validateEquals(*pred, table)
	case And:
		return validateAnd(pred, table)
	case *And:
		return validateAnd(*pred, table)
	default:
		return &QueryError{Message: fmt.Sprintf("unknown predicate type %T", p)}
	}
}

func validateEquals(eq Equals, table string) error {
	kind, ok := fields[table][eq.Field]
	if !ok {
		return &QueryError{Message: fmt.Sprintf("%s has no field %q (fields: %s)", table, eq.Field, strings.Join(Fields(table), ", "))}
	}
	switch kind {
	case intField:
		if _, ok := eq.Value.(int); !ok {
			return &QueryError{Message: fmt.Sprintf("%s.%s compares to an int, got %T", table, eq.Field, eq.Value)}
		}
	case stringField:
		if _, ok := eq.Value.(string); !ok {
			return &QueryError{Message: fmt.Sprintf("%s.%s compares to a string, got %T", table, eq.Field, eq.Value)}
		}
	}
	return nil
}

func validateAnd(and And, table string) error {
	for _, sub := range and.Predicates {
		if err := validatePredicate(sub, table); err != nil {
			return err
		}
	}
	return nil
}

// AsSelect returns q as a Select.
func AsSelect(q Query) (Select, bool) {
	switch query := q.(type) {
	case Select:
		return query, true
	case *Select:
		if query != nil {
			return *query, true
		}
	}
	return Select{}, false
}

// Fields returns the filterable fields of table in sorted order.
func Fields(table string) []string {
	out := make([]string, 0, len(fields[table]))
	for f := range fields[table] {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// ParseEquals parses "field=value" into an Equals on table, converting the
// value to the field's type.
func ParseEquals(table, expr string) (Equals, error) {
	field, value, ok := strings.Cut(expr, "=")
	if !ok || field == "" {
		return Equals{}, &QueryError{Message: fmt.Sprintf("expected field=value, got %q", expr)}
	}
	kind, ok := fields[table][field]
	if !ok {
		return Equals{}, &QueryError{Message: fmt.Sprintf("%s has no field %q (fields: %s)", table, field, strings.Join(Fields(table), ", "))}
	}
	if kind == intField {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Equals{}, &QueryError{Message: fmt.Sprintf("%s.%s: %q is not an integer", table, field, value)}
		}
		return Equals{Field: field, Value: n}, nil
	}
	return Equals{Field: field, Value: value}, nil
}
