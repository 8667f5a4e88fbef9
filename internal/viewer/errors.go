package viewer

import "errors"

var (
	// ErrUnknownControl is returned when a control id is not in the table.
	ErrUnknownControl = errors.New("unknown control")
	// ErrUnknownPanel is returned when a panel id is not registered.
	ErrUnknownPanel = errors.New("unknown panel")
	// ErrDuplicateControl is returned when a control table repeats an id.
	ErrDuplicateControl = errors.New("duplicate control")
)
