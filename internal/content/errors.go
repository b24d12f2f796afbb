package content

import (
	"errors"
	"fmt"
)

// ErrNoContent is returned when the selected kind has no items.
var ErrNoContent = errors.New("no content")

// ValidationError indicates the content document does not match the
// content schema, e.g. a required field is absent.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid content in %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid content: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
