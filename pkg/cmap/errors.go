package cmap

import "fmt"

// LinkError reports a violated freeness precondition on i_link/i_unlink
// (spec.md §4.3).
type LinkError struct {
	// Kind distinguishes which precondition failed.
	Kind LinkErrorKind
	I    int
	A, B DartID
}

// LinkErrorKind enumerates the ways a link/unlink precondition can fail.
type LinkErrorKind int

const (
	// NonFreeBase means the first dart passed to i_link was not i-free.
	NonFreeBase LinkErrorKind = iota
	// NonFreeImage means the second dart passed to i_link was not i-free
	// (or, for i=1, was not β0-free).
	NonFreeImage
	// AlreadyFree means i_unlink was called on a dart that is already
	// i-free.
	AlreadyFree
)

func (e *LinkError) Error() string {
	switch e.Kind {
	case NonFreeBase:
		return fmt.Sprintf("dart %d is not %d-free (base)", e.A, e.I)
	case NonFreeImage:
		return fmt.Sprintf("dart %d is not %d-free (image)", e.B, e.I)
	case AlreadyFree:
		return fmt.Sprintf("dart %d is already %d-free", e.A, e.I)
	default:
		return "invalid link operation"
	}
}

// SewError is the unified failure mode of sew/unsew (spec.md §4.7).
type SewError struct {
	// exactly one of Link, Attr is set, unless Geometry is true.
	Link     *LinkError
	Geometry *BadGeometryError
	Attr     *AttributeOpError
}

func (e *SewError) Error() string {
	switch {
	case e.Geometry != nil:
		return e.Geometry.Error()
	case e.Link != nil:
		return e.Link.Error()
	case e.Attr != nil:
		return e.Attr.Error()
	default:
		return "sew error"
	}
}

func (e *SewError) Unwrap() error {
	switch {
	case e.Geometry != nil:
		return e.Geometry
	case e.Link != nil:
		return e.Link
	case e.Attr != nil:
		return e.Attr
	default:
		return nil
	}
}

// BadGeometryError reports that a 2-sew/3-sew orientation check failed:
// pairing the two darts would invert the shared cell's orientation
// (spec.md §4.7, step 6).
type BadGeometryError struct {
	I    int
	A, B DartID
}

func (e *BadGeometryError) Error() string {
	return fmt.Sprintf("%d-sew(%d, %d) would invert orientation", e.I, e.A, e.B)
}

// AttributeOpError wraps an AttributeError encountered while merging or
// splitting attributes during a sew/unsew.
type AttributeOpError struct {
	Err error
}

func (e *AttributeOpError) Error() string { return e.Err.Error() }
func (e *AttributeOpError) Unwrap() error { return e.Err }

// DartReleaseError reports that release(d) was called on a dart that is
// not free (spec.md §4.2).
type DartReleaseError struct {
	Dart DartID
}

func (e *DartReleaseError) Error() string {
	return fmt.Sprintf("dart %d cannot be released: not free", e.Dart)
}

// DartReservationError reports that a reservation request could not be
// satisfied.
type DartReservationError struct {
	Requested int
	Reason    string
}

func (e *DartReservationError) Error() string {
	return fmt.Sprintf("cannot reserve %d darts: %s", e.Requested, e.Reason)
}
