package fakes

import (
	"context"
	"sync"

	"github.com/dhima/guild-log-viewer/internal/backend"
)

// FakeBackend is an in-memory backend.Backend that records every query.
type FakeBackend struct {
	mu      sync.Mutex
	queries []backend.Query

	// Rows are returned per table. A filtered query returns the rows whose
	// filter column equals the filter value when the row is listed in
	// FilteredRows; otherwise Rows is returned unchanged.
	Rows         map[string][][]byte
	FilteredRows map[string]map[string][][]byte

	// Err, when set, fails every query.
	Err error

	// Gate, when set, is consulted before answering: the query blocks until
	// the channel for its table yields (or is closed).
	Gate map[string]chan struct{}
}

// NewFakeBackend returns an empty backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Rows:         make(map[string][][]byte),
		FilteredRows: make(map[string]map[string][][]byte),
	}
}

// SetRows stores raw JSON rows for a table.
func (f *FakeBackend) SetRows(table string, rows ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Rows[table] = toBytes(rows)
}

// SetFilteredRows stores the rows answered when table is filtered by value.
func (f *FakeBackend) SetFilteredRows(table, value string, rows ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FilteredRows[table] == nil {
		f.FilteredRows[table] = make(map[string][][]byte)
	}
	f.FilteredRows[table][value] = toBytes(rows)
}

// SetErr makes every following query fail with err (nil clears it).
func (f *FakeBackend) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

// Select records q and answers from the configured rows.
func (f *FakeBackend) Select(ctx context.Context, q backend.Query) ([][]byte, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	gate := f.Gate[q.Table]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if q.Filter != nil {
		if byValue, ok := f.FilteredRows[q.Table]; ok {
			return byValue[q.Filter.Value], nil
		}
	}
	return f.Rows[q.Table], nil
}

// Queries returns a copy of every query received so far.
func (f *FakeBackend) Queries() []backend.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]backend.Query, len(f.queries))
	copy(out, f.queries)
	return out
}

func toBytes(rows []string) [][]byte {
	out := make([][]byte, 0, len(rows))
	for _, r := range rows {
		out = append(out, []byte(r))
	}
	return out
}
