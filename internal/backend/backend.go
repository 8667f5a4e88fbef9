// Package backend describes the remote table store the viewer reads from.
package backend

import (
	"context"
	"fmt"
)

// Equality constrains Column to equal Value.
type Equality struct {
	Column string
	Value  string
}

// Query is "select every column from Table", optionally narrowed by Filter.
type Query struct {
	Table  string
	Filter *Equality
}

// Where returns a copy of q with an equality constraint.
func (q Query) Where(column, value string) Query {
	q.Filter = &Equality{Column: column, Value: value}
	return q
}

func (q Query) String() string {
	if q.Filter == nil {
		return fmt.Sprintf("select * from %s", q.Table)
	}
	return fmt.Sprintf("select * from %s where %s = %q", q.Table, q.Filter.Column, q.Filter.Value)
}

// Backend runs read queries. Each returned element is one row encoded as a
// JSON object, in the order the store produced them.
type Backend interface {
	Select(ctx context.Context, q Query) ([][]byte, error)
}

// APIError is an error reported by the store itself rather than the transport.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("backend returned %d", e.Status)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// QueryFailure covers every way a fetch can fail: network, backend-reported
// error or an undecodable row.
type QueryFailure struct {
	Table string
	Err   error
}

func (e *QueryFailure) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Table, e.Err)
}

func (e *QueryFailure) Unwrap() error { return e.Err }
