package domain

import "fmt"

// Kind classifies a failure so the transport layer can translate it without
// inspecting message text.
type Kind int

const (
	KindNotAuthenticated Kind = iota
	KindNotFound
	KindAccessDenied
	KindInvalid
	KindConflict
	KindBusinessRule
)

// Error is a client-visible failure from core logic. It carries no transport
// detail; handlers map Kind to a status code.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func NotAuthenticated(msg string) *Error { return &Error{Kind: KindNotAuthenticated, Msg: msg} }
func NotFound(msg string) *Error         { return &Error{Kind: KindNotFound, Msg: msg} }
func AccessDenied(msg string) *Error     { return &Error{Kind: KindAccessDenied, Msg: msg} }
func Invalid(msg string) *Error          { return &Error{Kind: KindInvalid, Msg: msg} }
func Conflict(msg string) *Error         { return &Error{Kind: KindConflict, Msg: msg} }
func BusinessRule(msg string) *Error     { return &Error{Kind: KindBusinessRule, Msg: msg} }

func Invalidf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Msg: fmt.Sprintf(format, args...)}
}
