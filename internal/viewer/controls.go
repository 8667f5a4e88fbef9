package viewer

import (
	"fmt"
	"sync"

	"github.com/dhima/guild-log-viewer/internal/models"
)

// Panel ids.
const (
	PanelEventFilters   = "event-filters"
	PanelMessageFilters = "message-filters"
)

// Control ids that are not derived from an event type.
const (
	ControlAllEvents   = "all-events"
	ControlAllMessages = "all-messages"
)

// Panel display values.
const (
	DisplayBlock = "block"
	DisplayNone  = "none"
)

// Control maps a filter button to the fetch it triggers.
type Control struct {
	ID     string         `json:"id" example:"event-member-join"`
	Label  string         `json:"label" example:"Member Join"`
	Hint   string         `json:"hint,omitempty" example:"Logs when a new member joins the server."`
	Panel  string         `json:"panel" example:"event-filters"`
	Kind   models.LogKind `json:"kind" example:"event"`
	Filter string         `json:"filter,omitempty" example:"Member Join"`
} // @name Control

// EventControlID returns the control id for an event type filter.
func EventControlID(t models.EventType) string {
	return "event-" + t.Slug()
}

// ControlTable is an ordered, immutable set of controls.
type ControlTable struct {
	order []Control
	byID  map[string]Control
}

// NewControlTable builds a table, rejecting repeated ids.
func NewControlTable(controls ...Control) (*ControlTable, error) {
	t := &ControlTable{
		order: make([]Control, 0, len(controls)),
		byID:  make(map[string]Control, len(controls)),
	}
	for _, c := range controls {
		if _, ok := t.byID[c.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateControl, c.ID)
		}
		t.byID[c.ID] = c
		t.order = append(t.order, c)
	}
	return t, nil
}

// DefaultControls returns "all events", one control per known event type,
// and "all messages".
func DefaultControls() *ControlTable {
	types := models.EventTypes()
	controls := make([]Control, 0, len(types)+2)
	controls = append(controls, Control{
		ID:    ControlAllEvents,
		Label: "All Events",
		Panel: PanelEventFilters,
		Kind:  models.LogKindEvent,
	})
	for _, info := range types {
		controls = append(controls, Control{
			ID:     EventControlID(info.Type),
			Label:  string(info.Type),
			Hint:   info.Description,
			Panel:  PanelEventFilters,
			Kind:   models.LogKindEvent,
			Filter: string(info.Type),
		})
	}
	controls = append(controls, Control{
		ID:    ControlAllMessages,
		Label: "All Messages",
		Panel: PanelMessageFilters,
		Kind:  models.LogKindMessage,
	})

	t, err := NewControlTable(controls...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the control with the given id.
func (t *ControlTable) Lookup(id string) (Control, error) {
	c, ok := t.byID[id]
	if !ok {
		return Control{}, fmt.Errorf("%w: %q", ErrUnknownControl, id)
	}
	return c, nil
}

// InPanel returns the controls shown inside panel.
func (t *ControlTable) InPanel(panel string) []Control {
	var out []Control
	for _, c := range t.order {
		if c.Panel == panel {
			out = append(out, c)
		}
	}
	return out
}

// PanelState describes one toggle panel.
type PanelState struct {
	ID      string `json:"panel" example:"event-filters"`
	Display string `json:"display" example:"block"`
	Visible bool   `json:"visible" example:"true"`
} // @name PanelState

// Panels holds the display value of each toggle panel. Values start empty,
// which renders as hidden.
type Panels struct {
	mu      sync.Mutex
	order   []string
	display map[string]string
}

// NewPanels registers the given panel ids.
func NewPanels(ids ...string) *Panels {
	p := &Panels{display: make(map[string]string, len(ids))}
	for _, id := range ids {
		if _, ok := p.display[id]; ok {
			continue
		}
		p.display[id] = ""
		p.order = append(p.order, id)
	}
	return p
}

// DefaultPanels returns the event and message filter panels.
func DefaultPanels() *Panels {
	return NewPanels(PanelEventFilters, PanelMessageFilters)
}

// Toggle flips a panel: anything other than "block" becomes "block", and
// "block" becomes "none".
func (p *Panels) Toggle(id string) (PanelState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	current, ok := p.display[id]
	if !ok {
		return PanelState{}, fmt.Errorf("%w: %q", ErrUnknownPanel, id)
	}
	next := DisplayBlock
	if current == DisplayBlock {
		next = DisplayNone
	}
	p.display[id] = next
	return PanelState{ID: id, Display: next, Visible: next == DisplayBlock}, nil
}

// States returns every panel in registration order.
func (p *Panels) States() []PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PanelState, 0, len(p.order))
	for _, id := range p.order {
		d := p.display[id]
		out = append(out, PanelState{ID: id, Display: d, Visible: d == DisplayBlock})
	}
	return out
}
