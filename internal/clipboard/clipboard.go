// Package clipboard copies lookup summaries to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard backend exists
// (no pbcopy, xclip, xsel or wl-copy on this system).
var ErrUnavailable = errors.New("clipboard not available")

// Writer writes text to a clipboard. The TUI takes one so tests can swap it.
type Writer func(text string) error

// Write copies text to the system clipboard.
func Write(text string) error {
	if !Available() {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Available checks if clipboard functionality is available.
func Available() bool {
	return !clipboard.Unsupported
}
