package view

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleView is returned when the panel was closed or re-rendered while
	// this render was waiting on the catalog. The result must be discarded.
	ErrStaleView    = errors.New("view superseded")
	ErrUnknownPanel = errors.New("unknown panel")
)

// UnavailableError carries the placeholder text shown instead of a panel
// whose data could not be loaded.
type UnavailableError struct {
	Placeholder string
	Err         error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Placeholder, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
