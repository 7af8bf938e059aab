package serrors_test

import (
	"errors"
	"fmt"
	"levercast/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestDefaultKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrBadRequest,
		serrors.ErrInternal,
		serrors.ErrUnavailable,
		serrors.ErrTimeout,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("connection refused")

	e1 := serrors.With(serrors.ErrBadRequest, "Email is required")
	require.Equal(t, "Email is required", e1.Error())

	e2 := serrors.Wrap(serrors.ErrUnavailable, base, "could not send request")
	require.Equal(t, "could not send request: connection refused", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrInternal)
	require.Equal(t, "INTERNAL", e3.Error())

	e4 := serrors.Wrap(serrors.ErrTimeout, base, "")
	require.Equal(t, "connection refused", e4.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"dial tcp: i/o timeout"}
	e := serrors.Wrap(serrors.ErrUnavailable, base, "sending")

	require.ErrorIs(t, e, serrors.ErrUnavailable)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrBadRequest)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrUnavailable, base, "reading")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrUnavailable, k)

	var ce *customError
	require.ErrorAs(t, e, &ce)
	require.Equal(t, base, ce)
}

func TestKindOf(t *testing.T) {
	require.Nil(t, serrors.KindOf(errors.New("plain")))
	require.Nil(t, serrors.KindOf(nil))

	wrapped := fmt.Errorf("notify: %w", serrors.With(serrors.ErrBadRequest, "bad"))
	require.Equal(t, serrors.ErrBadRequest, serrors.KindOf(wrapped))

	require.Equal(t, serrors.ErrTimeout, serrors.KindOf(fmt.Errorf("x: %w", serrors.ErrTimeout)))
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrUnavailable, base, "no route")
	require.Equal(t, serrors.ErrUnavailable, e.Kind())
	require.Equal(t, "no route", e.Message())
	require.Equal(t, base, e.Cause())
}
