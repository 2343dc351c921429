package glplane

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// Flags modifies how a [Builder] reacts to invalid arguments.
type Flags uint64

const (
	// FlagNoDimensionPanic makes the Builder accumulate dimension errors instead of panicking.
	// Accumulated errors are retrieved with [Builder.Err].
	FlagNoDimensionPanic Flags = 1 << iota
)

// Builder wraps mesh generation logic.
// Provides error handling strategies with panics or error accumulation during mesh generation.
type Builder struct {
	flags     Flags
	accumErrs []error
}

// SetFlags sets the Builder's behaviour flags.
func (bld *Builder) SetFlags(flags Flags) {
	bld.flags = flags
}

// Flags returns the flags currently in use by the Builder.
func (bld *Builder) Flags() Flags {
	return bld.flags
}

// Err returns all errors accumulated since the last call to ClearErrors joined together, or nil if none.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

// ClearErrors discards accumulated errors.
func (bld *Builder) ClearErrors() {
	bld.accumErrs = bld.accumErrs[:0]
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	if bld.flags&FlagNoDimensionPanic == 0 {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// RGBA is a linear color with components conventionally in 0..1.
type RGBA struct {
	R, G, B, A float32
}

// White is opaque white, the vertex color used by the demos.
var White = RGBA{R: 1, G: 1, B: 1, A: 1}

// Array returns the color as a 4-element array, as expected by GL uniform and buffer calls.
func (c RGBA) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}
