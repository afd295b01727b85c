package syncstate

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFacade_ReflectsCellImmediately(t *testing.T) {
	cell := NewCell("a")
	facade := newFacade(cell)

	require.Equal(t, "a", facade.Value())
	cell.SetValue("b")
	require.Equal(t, "b", facade.Value())
}

func TestFacade_AnyKeyReturnsWholeValue(t *testing.T) {
	cell := NewCell(42)
	facade := newFacade(cell)

	for _, key := range []string{ValueKey, "foo", "", "0", "valueOf"} {
		require.Equal(t, 42, facade.Get(key), "key %q", key)
		require.True(t, facade.Has(key), "key %q", key)
	}
}

func TestFacade_EnumeratesOnlyCanonicalKey(t *testing.T) {
	facade := newFacade(NewCell(0))
	if diff := cmp.Diff([]string{ValueKey}, facade.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFacade_StringMatchesValue(t *testing.T) {
	cell := NewCell(5)
	facade := newFacade(cell)

	for _, v := range []int{5, 0, -3, 100} {
		cell.SetValue(v)
		require.Equal(t, fmt.Sprint(facade.Value()), facade.String())
		require.Equal(t, fmt.Sprint(v), fmt.Sprintf("%v", facade))
	}
}

func TestFacade_NilReceiver(t *testing.T) {
	var facade *Facade[int]
	require.Equal(t, 0, facade.Value())
	require.Equal(t, "<nil>", facade.String())
}
