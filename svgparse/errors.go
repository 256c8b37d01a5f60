package svgparse

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/svgimport/svgxml"
)

var (
	ErrParamMismatch = errors.New("param mismatch")
	ErrUnknownPaint  = errors.New("unsupported paint value")
	ErrMissingID     = errors.New("reference to an undefined id")
	ErrHrefCycle     = errors.New("cyclic href chain")
	ErrUseCycle      = errors.New("cyclic use reference")
	ErrMaxDepth      = errors.New("maximum nesting depth exceeded")
	ErrBadLength     = errors.New("invalid length")
	ErrBadColor      = errors.New("invalid color")
	ErrBadTransform  = errors.New("invalid transform")
	ErrBadImage      = errors.New("invalid image")
)

// warn records a recovered problem, and logs it
// in WarnErrorMode.
func (r *registry) warn(err error) {
	r.warnings = append(r.warnings, err)
	if r.opts.ErrorMode == WarnErrorMode {
		r.opts.Logger.Println("svgparse:", err)
	}
}

// warnAt adds the element location to `err`.
func (r *registry) warnAt(el *svgxml.Element, err error) {
	r.warn(fmt.Errorf("<%s> line %d: %w", el.Name, el.Line, err))
}
