package tui

import (
	"errors"
	"fmt"

	"github.com/pders01/lumen/internal/session"
)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// friendlyError shortens errors the user can act on.
func friendlyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrNoSelection):
		return "Nothing selected"
	default:
		return err.Error()
	}
}
