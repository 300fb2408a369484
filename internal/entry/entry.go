package entry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/idsgo/internal/codec"
	"github.com/roach88/idsgo/internal/coordinate"
	"github.com/roach88/idsgo/internal/ids"
	"github.com/roach88/idsgo/internal/metadata"
	"github.com/roach88/idsgo/internal/store"
	"github.com/roach88/idsgo/internal/tensor"
)

// Entry reads and writes documents of one Data Dictionary in a store.
type Entry struct {
	dict     *metadata.Dictionary
	store    *store.Store
	logger   *slog.Logger
	validate bool
	coords   []coordinate.Option
}

// New returns an Entry over dict and s. The caller keeps ownership of s.
func New(dict *metadata.Dictionary, s *store.Store, opts ...Option) *Entry {
	cfg := newConfig(opts)
	coords := append([]coordinate.Option{coordinate.WithLogger(cfg.logger)}, cfg.coords...)
	return &Entry{
		dict:     dict,
		store:    s,
		logger:   cfg.logger,
		validate: cfg.validate,
		coords:   coords,
	}
}

// Dictionary returns the Data Dictionary of the Entry.
func (e *Entry) Dictionary() *metadata.Dictionary { return e.dict }

// Store returns the underlying store.
func (e *Entry) Store() *store.Store { return e.store }

// New returns an empty document of the named IDS.
func (e *Entry) New(name string) (*ids.IDS, error) {
	tree, err := e.dict.IDS(name)
	if err != nil {
		return nil, err
	}
	return ids.New(tree)
}

// Put validates doc, encodes it and stores it as the given occurrence.
// An existing occurrence is never overwritten.
func (e *Entry) Put(ctx context.Context, doc *ids.IDS, occurrence int) (store.EntryInfo, error) {
	if doc.Version() != e.dict.Version {
		return store.EntryInfo{}, &VersionError{IDS: doc.Name(), Want: e.dict.Version, Got: doc.Version()}
	}
	if e.validate {
		if err := coordinate.Validate(doc, e.coords...); err != nil {
			return store.EntryInfo{}, fmt.Errorf("put %s: %w", doc.Name(), err)
		}
	} else {
		e.logger.Debug("validation disabled", "ids", doc.Name())
	}

	set, err := e.Encode(doc)
	if err != nil {
		return store.EntryInfo{}, err
	}
	info, err := e.store.PutTensorSet(ctx, doc.Name(), occurrence, set)
	if err != nil {
		return store.EntryInfo{}, err
	}
	e.logger.Info("stored IDS", "ids", doc.Name(), "occurrence", occurrence, "id", info.ID)
	return info, nil
}

// Encode tensorizes doc without storing it.
func (e *Entry) Encode(doc *ids.IDS) (*tensor.Set, error) {
	set, err := codec.Encode(doc, codec.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", doc.Name(), err)
	}
	return set, nil
}

// Get loads the given occurrence of the named IDS into a fresh document.
// Stored variables the dictionary has no node for are skipped and logged.
func (e *Entry) Get(ctx context.Context, name string, occurrence int) (*ids.IDS, error) {
	set, err := e.TensorSet(ctx, name, occurrence)
	if err != nil {
		return nil, err
	}
	doc, err := e.New(name)
	if err != nil {
		return nil, err
	}
	if err := codec.Decode(set, doc, codec.WithLogger(e.logger)); err != nil {
		return nil, err
	}
	return doc, nil
}

// TensorSet loads the stored tensor set of the given occurrence without
// decoding it. The occurrence must have been stored with the Entry's
// dictionary version.
func (e *Entry) TensorSet(ctx context.Context, name string, occurrence int) (*tensor.Set, error) {
	info, err := e.store.Entry(ctx, name, occurrence)
	if err != nil {
		return nil, err
	}
	if info.DDVersion != e.dict.Version {
		return nil, &VersionError{IDS: name, Want: e.dict.Version, Got: info.DDVersion}
	}
	return e.store.GetTensorSet(ctx, name, occurrence)
}

// Occurrences lists the stored occurrences of the named IDS.
func (e *Entry) Occurrences(ctx context.Context, name string) ([]store.EntryInfo, error) {
	return e.store.ListOccurrences(ctx, name)
}

// Delete removes a stored occurrence.
func (e *Entry) Delete(ctx context.Context, name string, occurrence int) error {
	return e.store.DeleteOccurrence(ctx, name, occurrence)
}
