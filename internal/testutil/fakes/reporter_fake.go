package fakes

import (
	"context"
	"sync"

	"github.com/dhima/guild-log-viewer/internal/diagnostics"
)

// FakeReporter captures reported failures.
type FakeReporter struct {
	mu       sync.Mutex
	failures []diagnostics.Failure
}

func (r *FakeReporter) Report(_ context.Context, f diagnostics.Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

// Failures returns a copy of the captured failures.
func (r *FakeReporter) Failures() []diagnostics.Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]diagnostics.Failure, len(r.failures))
	copy(out, r.failures)
	return out
}
