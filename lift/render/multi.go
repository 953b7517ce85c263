package render

import (
	"errors"

	"github.com/delliston/liftsim/lift"
)

// Multi renders to each of its renderers in order and joins their errors.
type Multi []lift.Renderer

func (m Multi) Render(s lift.Snapshot) error {
	var errs []error
	for _, r := range m {
		if err := r.Render(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
