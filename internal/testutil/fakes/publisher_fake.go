package fakes

import (
	"context"
	"errors"
	"sync"

	platformEvents "github.com/dhima/guild-log-viewer/platform/events"
)

// FakePublisher captures published failure events and can simulate failures.
type FakePublisher struct {
	mu        sync.Mutex
	Events    []platformEvents.QueryFailureEvent
	FailNext  bool
	FailError error
}

func (p *FakePublisher) Publish(_ context.Context, e platformEvents.QueryFailureEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailNext {
		p.FailNext = false
		if p.FailError == nil {
			p.FailError = errors.New("publish failed")
		}
		return p.FailError
	}
	p.Events = append(p.Events, e)
	return nil
}

// Published returns a copy of the captured events.
func (p *FakePublisher) Published() []platformEvents.QueryFailureEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]platformEvents.QueryFailureEvent, len(p.Events))
	copy(out, p.Events)
	return out
}
