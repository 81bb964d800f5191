package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can react without parsing messages.
type Kind int

const (
	// KindUpstream covers transport failures and non-2xx upstream responses.
	KindUpstream Kind = iota
	// KindNotFound covers absent players, profiles and records.
	KindNotFound
	// KindDataIntegrity covers well-formed responses missing expected fields.
	KindDataIntegrity
	// KindComputation covers derived-value calculation failures.
	KindComputation
)

func (k Kind) String() string {
	switch k {
	case KindUpstream:
		return "upstream"
	case KindNotFound:
		return "not_found"
	case KindDataIntegrity:
		return "data_integrity"
	case KindComputation:
		return "computation"
	default:
		return "unknown"
	}
}

// Error carries a Kind alongside the usual wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func Upstream(cause error, format string, args ...any) *Error {
	return newf(KindUpstream, cause, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, nil, format, args...)
}

func DataIntegrity(format string, args ...any) *Error {
	return newf(KindDataIntegrity, nil, format, args...)
}

func Computation(cause error, format string, args ...any) *Error {
	return newf(KindComputation, cause, format, args...)
}

// KindOf reports the Kind of err, walking the wrap chain. The second return is
// false when no *Error is present anywhere in the chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
