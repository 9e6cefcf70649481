package ssz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error kinds. Every failure returned by the engine matches exactly one of
// these through errors.Is.
var (
	ErrTruncatedInput   = errors.New("ssz: truncated input")
	ErrOffsetOutOfOrder = errors.New("ssz: offsets out of order")
	ErrOffsetMisaligned = errors.New("ssz: first offset does not match fixed region size")
	ErrTrailingBytes    = errors.New("ssz: trailing bytes")
	ErrInvalidLength    = errors.New("ssz: invalid length")
	ErrBoundExceeded    = errors.New("ssz: bound exceeded")
	ErrParseFailure     = errors.New("ssz: parse failure")
	ErrInvalidBool      = errors.New("ssz: invalid boolean value")
	ErrInvalidBitfield  = errors.New("ssz: invalid bitfield")
	ErrTypeMismatch     = errors.New("ssz: value does not match type")
	ErrSizeOverflow     = errors.New("ssz: encoding exceeds offset range")
)

// Error is the structured failure produced by Validate, Encode, Decode and
// HashTreeRoot. Kind is one of the Err* sentinels; Path names the offending
// field ("withdrawals[3].amount"); Bound and Got carry the violated limit and
// the observed value where one applies.
type Error struct {
	Kind  error
	Path  string
	Bound uint64
	Got   uint64
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Bound != 0 || e.Got != 0 {
		fmt.Fprintf(&b, " (got %d, limit %d)", e.Got, e.Bound)
	}
	return b.String()
}

// Unwrap returns the error kind so errors.Is matches the sentinel.
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, bound, got uint64) *Error {
	return &Error{Kind: kind, Bound: bound, Got: got}
}

// fail builds an *Error without bound details.
func fail(kind error) *Error {
	return &Error{Kind: kind}
}

// atField prefixes the path of err with a container field name.
func atField(err error, name string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	switch {
	case e.Path == "":
		e.Path = name
	case e.Path[0] == '[':
		e.Path = name + e.Path
	default:
		e.Path = name + "." + e.Path
	}
	return e
}

// atIndex prefixes the path of err with a sequence index.
func atIndex(err error, i int) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	seg := "[" + strconv.Itoa(i) + "]"
	if e.Path == "" || e.Path[0] == '[' {
		e.Path = seg + e.Path
	} else {
		e.Path = seg + "." + e.Path
	}
	return e
}
