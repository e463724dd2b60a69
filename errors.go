package esexpr

import (
	"fmt"
	"strconv"
)

// Path describes where inside an expression a decode failure occurred,
// as a breadcrumb trail from the outermost constructor inward.
type Path interface {
	fmt.Stringer

	sealedPath()
}

// PathCurrent marks the expression currently being decoded.
type PathCurrent struct{}

func (PathCurrent) String() string { return "<current>" }
func (PathCurrent) sealedPath()    {}

// PathConstructor marks a failure at a constructor itself, before
// descending into any argument.
type PathConstructor struct {
	Name string
}

func (p PathConstructor) String() string { return p.Name }
func (p PathConstructor) sealedPath()    {}

// PathPositional marks a failure inside positional argument Index of
// the named constructor.
type PathPositional struct {
	Name  string
	Index int
	Next  Path
}

func (p PathPositional) String() string {
	return p.Name + "[" + strconv.Itoa(p.Index) + "]." + p.Next.String()
}
func (p PathPositional) sealedPath() {}

// PathKeyword marks a failure inside the named keyword argument of the
// named constructor.
type PathKeyword struct {
	Name string
	Key  string
	Next Path
}

func (p PathKeyword) String() string {
	return p.Name + "[" + p.Key + "]." + p.Next.String()
}
func (p PathKeyword) sealedPath() {}

// DecodeError is the error returned by every codec decode. Cause is one
// of *UnexpectedExprError, *OutOfRangeError, *MissingKeywordError, or
// *MissingPositionalError; Path locates the failure.
type DecodeError struct {
	Cause error
	Path  Path
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode at %s: %v", e.Path, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// UnexpectedExprError reports a tag mismatch between what a codec
// accepts and what the expression is.
type UnexpectedExprError struct {
	Expected TagSet
	Actual   Tag
}

func (e *UnexpectedExprError) Error() string {
	return fmt.Sprintf("unexpected expression: expected one of %s, found %s", e.Expected, e.Actual)
}

// OutOfRangeError reports a value rejected by a codec: numeric
// narrowing overflow, a list with keyword arguments, or a
// domain-specific rejection.
type OutOfRangeError struct {
	Message string
}

func (e *OutOfRangeError) Error() string { return "out of range: " + e.Message }

// MissingKeywordError reports a required keyword argument that was
// absent on decode.
type MissingKeywordError struct {
	Name string
}

func (e *MissingKeywordError) Error() string { return "missing keyword argument: " + e.Name }

// MissingPositionalError reports a required positional argument that
// was absent on decode.
type MissingPositionalError struct{}

func (e *MissingPositionalError) Error() string { return "missing positional argument" }

// errUnexpected builds the standard tag-mismatch decode error.
func errUnexpected(expected TagSet, actual Tag) error {
	return &DecodeError{
		Cause: &UnexpectedExprError{Expected: expected, Actual: actual},
		Path:  PathCurrent{},
	}
}

// errOutOfRange builds an out-of-range decode error at the current
// position.
func errOutOfRange(format string, args ...any) error {
	return &DecodeError{
		Cause: &OutOfRangeError{Message: fmt.Sprintf(format, args...)},
		Path:  PathCurrent{},
	}
}

// inPositional rewraps a child decode error so its path descends from
// the named constructor's positional argument.
func inPositional(err error, name string, index int) error {
	if de, ok := err.(*DecodeError); ok {
		return &DecodeError{
			Cause: de.Cause,
			Path:  PathPositional{Name: name, Index: index, Next: de.Path},
		}
	}
	return err
}

// inKeyword rewraps a child decode error so its path descends from the
// named constructor's keyword argument.
func inKeyword(err error, name, key string) error {
	if de, ok := err.(*DecodeError); ok {
		return &DecodeError{
			Cause: de.Cause,
			Path:  PathKeyword{Name: name, Key: key, Next: de.Path},
		}
	}
	return err
}

// atConstructor pins a constructor-level failure (missing argument,
// leftover argument) to the constructor itself.
func atConstructor(cause error, name string) error {
	return &DecodeError{Cause: cause, Path: PathConstructor{Name: name}}
}
