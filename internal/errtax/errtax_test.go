package errtax

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorConstructionHelpers(t *testing.T) {
	err := UndefinedSymbol("foo", "(foo 1 2)")
	require.Equal(t, KindUndefinedSymbol, err.Kind)
	require.Equal(t, "undefined_symbol", err.Reason)
	require.Equal(t, "foo", err.Details["symbol"])
	require.Equal(t, "(foo 1 2)", err.Expression)
	require.Contains(t, err.Error(), "foo")

	arity := ArityMismatch(2, 1)
	require.Equal(t, KindArgumentError, arity.Kind)
	require.Equal(t, 2, arity.Details["expected"])
	require.Equal(t, 1, arity.Details["actual"])

	parse := ParseError("unmatched (", 3, 7)
	require.Equal(t, 3, parse.Details["line"])
	require.Equal(t, 7, parse.Details["column"])
}

func TestWithDetailChains(t *testing.T) {
	err := New(KindInternal, "oops", "something").
		WithDetail("a", 1).
		WithDetail("b", "two")
	require.Equal(t, 1, err.Details["a"])
	require.Equal(t, "two", err.Details["b"])
}

func TestIsTransientClassification(t *testing.T) {
	require.False(t, IsTransient(nil))
	require.True(t, IsTransient(&TransientError{Err: errors.New("503")}))
	require.False(t, IsTransient(&PermanentError{Err: errors.New("401")}))
	require.False(t, IsTransient(context.DeadlineExceeded))
	require.True(t, IsTransient(errors.New("connection refused")))
	require.False(t, IsTransient(errors.New("invalid request")))
}

func TestIsTransientUnwrapsWrappedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), &TransientError{Err: errors.New("inner")})
	require.True(t, IsTransient(wrapped))
}

func TestToErrorMapsDeadlineToTimeout(t *testing.T) {
	err := ToError(KindToolFailure, context.DeadlineExceeded)
	require.Equal(t, KindTimeout, err.Kind)

	err = ToError(KindToolFailure, errors.New("boom"))
	require.Equal(t, KindToolFailure, err.Kind)

	require.Nil(t, ToError(KindToolFailure, nil))
}
