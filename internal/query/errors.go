// Package query is the lazy, cached derivation layer over a frozen
// rawio.RawData: Stmts, Tests, Spectra, DefUse, Cfg, Pdg and Vars, each
// keyed by nothing, a function name, or a test name. A Store computes each
// key once and remembers the result; a failed computation is never cached,
// so a caller can retry after e.g. fixing up preprocessing state.
package query

import "fmt"

// ErrorKind enumerates the ways a keyed query can fail. Only Vars can fail
// today, but the type is shared so every query reports through the same
// shape.
type ErrorKind int

const (
	InvalidTrace ErrorKind = iota
	MissingVariableTrace
	InvalidTestName
)

// Error is returned by a query's Build function when a key's derivation
// cannot produce a result.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidTrace:
		return fmt.Sprintf("query: invalid trace: %s", e.Msg)
	case MissingVariableTrace:
		return fmt.Sprintf("query: missing variable trace: %s", e.Msg)
	case InvalidTestName:
		return fmt.Sprintf("query: invalid test name: %s", e.Msg)
	default:
		return fmt.Sprintf("query: error: %s", e.Msg)
	}
}

func errInvalidTrace(msg string) error         { return &Error{Kind: InvalidTrace, Msg: msg} }
func errMissingVariableTrace(msg string) error { return &Error{Kind: MissingVariableTrace, Msg: msg} }
func errInvalidTestName(msg string) error      { return &Error{Kind: InvalidTestName, Msg: msg} }
