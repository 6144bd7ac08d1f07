package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrPageAllocation indicates the PDF backend could not start a new page.
	ErrPageAllocation = errors.New("page allocation failed")

	// ErrNegativeCursor indicates the vertical cursor moved above the page origin.
	ErrNegativeCursor = errors.New("negative cursor")

	// ErrRender indicates the PDF backend rejected a drawing operation.
	ErrRender = errors.New("render failed")
)

// DocumentError is the single error type returned by document generation.
// Section names the part of the document that was being rendered.
type DocumentError struct {
	Section string
	Err     error
}

func (e *DocumentError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("document generation failed: %v", e.Err)
	}
	return fmt.Sprintf("document generation failed in %s: %v", e.Section, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// WithSection attaches a section name to err. A nil err stays nil and an existing
// DocumentError keeps its original section.
func WithSection(section string, err error) error {
	if err == nil {
		return nil
	}
	var de *DocumentError
	if errors.As(err, &de) {
		return err
	}
	return &DocumentError{Section: section, Err: err}
}
