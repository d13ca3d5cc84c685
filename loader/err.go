package loader

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Loader errors
	ErrProgramMissing   = errors.New(f("program missing"))
	ErrProgramEmpty     = errors.New(f("program empty"))
	ErrMalformedLiteral = errors.New(f("literal malformed"))
)

// ErrSyntax locates an error in the program image.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrParseLiteral is a token that is not an 8-bit binary literal.
type ErrParseLiteral string

func (err ErrParseLiteral) Error() string {
	return f("'%v' is not a binary literal", string(err))
}

func (err ErrParseLiteral) Is(target error) bool {
	return target == ErrMalformedLiteral
}
