package diag

import (
	"errors"
	"fmt"
	"go/token"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Configuration errors abort generation for the whole type.
	CodeUnknownTrait        Code = "UNKNOWN_TRAIT"
	CodeUnknownDirective    Code = "UNKNOWN_DIRECTIVE"
	CodeInvalidBooleanValue Code = "INVALID_BOOLEAN_VALUE"
	CodeMissingValue        Code = "MISSING_VALUE"
	CodeInvalidBound        Code = "INVALID_BOUND"
	CodeInvalidValue        Code = "INVALID_VALUE"
	CodeSyntax              Code = "SYNTAX"

	// Trait errors block a single trait of a type.
	CodeEnumNotOptedIn          Code = "ENUM_NOT_OPTED_IN"
	CodeAmbiguousDefaultVariant Code = "AMBIGUOUS_DEFAULT_VARIANT"
	CodeInvalidTransparent      Code = "INVALID_TRANSPARENT"
	CodeUnsupportedField        Code = "UNSUPPORTED_FIELD"
	CodeNotCopyable             Code = "NOT_COPYABLE"
	CodeNotTotal                Code = "NOT_TOTAL"
	CodeMissingPrerequisite     Code = "MISSING_PREREQUISITE"

	// CodeInvalidDeclaration reports a declaration the model cannot represent.
	CodeInvalidDeclaration Code = "INVALID_DECLARATION"
)

// IsConfiguration reports whether the code belongs to the configuration
// taxonomy.
func (c Code) IsConfiguration() bool {
	switch c {
	case CodeUnknownTrait, CodeUnknownDirective, CodeInvalidBooleanValue,
		CodeMissingValue, CodeInvalidBound, CodeInvalidValue, CodeSyntax:
		return true
	}
	return false
}

// Error is a user-facing diagnostic anchored at a source position.
type Error struct {
	Code    Code
	Pos     token.Position
	Type    string // declaration the error belongs to, if known
	Trait   string
	Key     string
	Message string
}

// Error implements the error interface. If pos is valid, the position is
// prepended to the message.
func (e *Error) Error() string {
	msg := e.Message
	if e.Type != "" {
		msg = e.Type + ": " + msg
	}
	if !e.Pos.IsValid() {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Pos, msg)
}

// Is matches any *Error with the same code, so sentinels such as
// ErrEnumNotOptedIn work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

// Errorf creates a diagnostic at pos.
func Errorf(code Code, pos token.Position, format string, args ...any) *Error {
	return &Error{Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// WithTrait returns a copy of e tagged with the trait name.
func (e *Error) WithTrait(trait string) *Error {
	c := *e
	c.Trait = trait
	return &c
}

// WithType returns a copy of e tagged with the declaration name.
func (e *Error) WithType(name string) *Error {
	c := *e
	c.Type = name
	return &c
}

// Sentinels for errors.Is.
var (
	ErrUnknownTrait            = &Error{Code: CodeUnknownTrait}
	ErrUnknownDirective        = &Error{Code: CodeUnknownDirective}
	ErrInvalidBooleanValue     = &Error{Code: CodeInvalidBooleanValue}
	ErrMissingValue            = &Error{Code: CodeMissingValue}
	ErrInvalidBound            = &Error{Code: CodeInvalidBound}
	ErrInvalidValue            = &Error{Code: CodeInvalidValue}
	ErrSyntax                  = &Error{Code: CodeSyntax}
	ErrEnumNotOptedIn          = &Error{Code: CodeEnumNotOptedIn}
	ErrAmbiguousDefaultVariant = &Error{Code: CodeAmbiguousDefaultVariant}
	ErrInvalidTransparent      = &Error{Code: CodeInvalidTransparent}
	ErrUnsupportedField        = &Error{Code: CodeUnsupportedField}
	ErrNotCopyable             = &Error{Code: CodeNotCopyable}
	ErrNotTotal                = &Error{Code: CodeNotTotal}
	ErrMissingPrerequisite     = &Error{Code: CodeMissingPrerequisite}
	ErrInvalidDeclaration      = &Error{Code: CodeInvalidDeclaration}
)

// Flatten returns every *Error found in err, descending into errors.Join
// trees and wrapped errors. Errors of other types are dropped.
func Flatten(err error) []*Error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*Error
		for _, e := range joined.Unwrap() {
			out = append(out, Flatten(e)...)
		}
		return out
	}
	var d *Error
	if errors.As(err, &d) {
		return []*Error{d}
	}
	return nil
}

// Join batches diagnostics into one error. It returns nil for an empty list.
func Join(errs []*Error) error {
	if len(errs) == 0 {
		return nil
	}
	list := make([]error, 0, len(errs))
	for _, e := range errs {
		list = append(list, e)
	}
	return errors.Join(list...)
}
