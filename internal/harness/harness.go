package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/idsgo/internal/codec"
	"github.com/roach88/idsgo/internal/compiler"
	"github.com/roach88/idsgo/internal/coordinate"
	"github.com/roach88/idsgo/internal/entry"
	"github.com/roach88/idsgo/internal/ids"
	"github.com/roach88/idsgo/internal/store"
	"github.com/roach88/idsgo/internal/testutil"
)

// Harness is the scenario execution engine.
type Harness struct {
	entry  *entry.Entry
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Compile the dictionary and fill a new document
// 2. Apply mutations
// 3. Validate coordinates
// 4. Tensorize, store, load and decode
// 5. Evaluate assertions
//
// An error is returned only when the scenario cannot be set up; failed
// assertions are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	dict, err := compiler.Load(scenario.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.Open(":memory:",
		store.WithLogger(logger),
		store.WithIDGenerator(testutil.NewSequentialIDGenerator(scenario.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		// Validity is an assertion, not a precondition for storing
		entry:  entry.New(dict, st, entry.WithLogger(logger), entry.WithValidation(false)),
		logger: logger,
	}

	doc, err := h.entry.New(scenario.IDS)
	if err != nil {
		return nil, err
	}
	if err := ids.Fill(doc.Root(), scenario.Data); err != nil {
		return nil, fmt.Errorf("failed to fill %s: %w", scenario.IDS, err)
	}
	if err := applyMutations(doc, scenario.Mutations); err != nil {
		return nil, err
	}

	result := NewResult()
	if err := coordinate.Validate(doc, coordinate.WithLogger(logger)); err != nil {
		result.ValidationError = err.Error()
	} else {
		result.Valid = true
	}

	if err := h.roundTrip(context.Background(), doc, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// roundTrip encodes doc, stores it, reads it back and decodes it into a
// fresh document. Encoding failures are recorded in result.
func (h *Harness) roundTrip(ctx context.Context, doc *ids.IDS, result *Result) error {
	set, err := h.entry.Encode(doc)
	if err != nil {
		result.EncodeError = err.Error()
		return nil
	}
	result.Set = set

	st := h.entry.Store()
	if _, err := st.PutTensorSet(ctx, doc.Name(), 0, set); err != nil {
		return fmt.Errorf("failed to store tensor set: %w", err)
	}
	loaded, err := st.GetTensorSet(ctx, doc.Name(), 0)
	if err != nil {
		return fmt.Errorf("failed to load tensor set: %w", err)
	}

	fresh, err := h.entry.New(doc.Name())
	if err != nil {
		return err
	}
	dec := codec.NewDecoder(codec.WithLogger(h.logger))
	if err := dec.Decode(loaded, fresh); err != nil {
		return fmt.Errorf("failed to decode tensor set: %w", err)
	}
	for _, skipped := range dec.Skipped() {
		result.Skipped = append(result.Skipped, skipped.Variable)
	}
	result.RoundTrip = ids.Equal(doc.Root(), fresh.Root())

	h.logger.Info("round trip completed",
		"ids", doc.Name(),
		"variables", len(set.Names()),
		"equal", result.RoundTrip,
	)
	return nil
}

// applyMutations assigns each mutation in order.
func applyMutations(doc *ids.IDS, mutations []Mutation) error {
	for i, m := range mutations {
		n, err := doc.Get(m.Path)
		if err != nil {
			return fmt.Errorf("mutations[%d]: %w", i, err)
		}
		switch node := n.(type) {
		case *ids.Leaf:
			if m.Value == nil {
				node.Clear()
				continue
			}
			if err := node.SetValue(m.Value); err != nil {
				return fmt.Errorf("mutations[%d]: %w", i, err)
			}
		case *ids.StructArray:
			size, ok := m.Value.(int)
			if !ok {
				return fmt.Errorf("mutations[%d]: %s is an array of structures, value must be its length", i, m.Path)
			}
			if err := node.Resize(size); err != nil {
				return fmt.Errorf("mutations[%d]: %w", i, err)
			}
		default:
			return fmt.Errorf("mutations[%d]: cannot assign to structure %s", i, m.Path)
		}
	}
	return nil
}
