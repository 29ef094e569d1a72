// Package platform presents an engine.Application: in the terminal, in a
// desktop window, or headless as a series of image files.
package platform

import (
	"errors"

	"github.com/taigrr/softras/pkg/engine"
)

// StatusReporter is implemented by applications that have a one-line HUD.
type StatusReporter interface {
	Status() string
}

func status(app engine.Application) string {
	if s, ok := app.(StatusReporter); ok {
		return s.Status()
	}
	return ""
}

// quitOK maps the normal quit signal to a nil error.
func quitOK(err error) error {
	if errors.Is(err, engine.ErrQuit) {
		return nil
	}
	return err
}
