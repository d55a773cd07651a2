// Package rverr defines the sentinel error kinds spec.md §7 names. The
// teacher repo propagates plain wrapped errors from os/io calls straight to
// main's `ERROR:`-prefixed diagnostic line; this package keeps that
// propagation style but gives each fatal kind a distinct sentinel so callers
// can tell them apart with errors.Is, and so DecodeFailure (a deliberately
// silent, non-fatal outcome) can never be confused with a real error value.
package rverr

import "errors"

// Sentinel error kinds. Every one of these is fatal to a run and reported
// with a single diagnostic line, per spec.md §7's propagation policy.
var (
	// ErrInputIO indicates the target file could not be opened or read.
	ErrInputIO = errors.New("input file unreadable")

	// ErrInputFormat indicates the input is not a valid ELF, or is an ELF
	// of the wrong architecture or bit-width for the requested ISA.
	ErrInputFormat = errors.New("input is not a recognized ELF for the requested ISA")

	// ErrNoCodeSegment indicates no loadable R|X program header was found.
	ErrNoCodeSegment = errors.New("no executable code segment found")

	// ErrBadArgument indicates a CLI argument failed to parse: an unknown
	// register name, unknown instruction mnemonic, or an immediate out of
	// range for a signed 64-bit value.
	ErrBadArgument = errors.New("bad argument")
)

// Wrap annotates err with a sentinel kind while preserving it for
// errors.Is/errors.Unwrap, matching the "wrap with context, unwrap to
// sentinel" pattern spec.md §7 implies and the teacher's own
// fmt.Errorf("...: %w", err) usage in its file-handling paths.
func Wrap(kind error, context string, err error) error {
	if err == nil {
		return kind
	}
	return &wrapped{kind: kind, context: context, err: err}
}

type wrapped struct {
	kind    error
	context string
	err     error
}

func (w *wrapped) Error() string {
	if w.err == nil {
		return w.context
	}
	return w.context + ": " + w.err.Error()
}

func (w *wrapped) Unwrap() error { return w.err }

func (w *wrapped) Is(target error) bool { return target == w.kind }
