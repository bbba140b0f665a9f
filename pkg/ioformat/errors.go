// Package ioformat reads and writes the flat-text combinatorial map
// representation (spec.md §4.10): a small line-oriented format with
// bracketed section headers, grounded on honeycomb-core's CMapFile parser.
package ioformat

import "fmt"

// Error is the typed failure mode of a flat-text parse or build.
type Error struct {
	Kind    Kind
	Section string
	Msg     string
}

// Kind enumerates the ways a flat-text file can be malformed.
type Kind int

const (
	// BadMetaData means the [meta] line didn't have exactly 3 tokens, or
	// the dimension/dart-count tokens didn't parse.
	BadMetaData Kind = iota
	// MissingSection means a required section ([meta] or [betas]) was
	// absent.
	MissingSection
	// UnknownHeader means a bracketed header named something other than
	// meta, betas, unused, or vertices.
	UnknownHeader
	// DuplicatedSection means the same header appeared twice.
	DuplicatedSection
	// BadValue means a line's tokens didn't parse as the expected
	// integers/floats, or had the wrong count.
	BadValue
)

func (e *Error) Error() string {
	switch e.Kind {
	case BadMetaData:
		return fmt.Sprintf("bad meta data: %s", e.Msg)
	case MissingSection:
		return fmt.Sprintf("missing section [%s]", e.Section)
	case UnknownHeader:
		return fmt.Sprintf("unknown section header [%s]", e.Section)
	case DuplicatedSection:
		return fmt.Sprintf("duplicated section [%s]", e.Section)
	case BadValue:
		return fmt.Sprintf("bad value in [%s]: %s", e.Section, e.Msg)
	default:
		return e.Msg
	}
}
