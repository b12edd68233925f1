package kv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	getHeaders := func() *Storage {
		return New().
			Add("Foo", "bar").
			Add("Hello", "World").
			Add("Lorem", "ipsum").
			Add("hello", "Pavlo")
	}

	t.Run("get is case insensitive", func(t *testing.T) {
		kv := getHeaders()
		value, found := kv.Get("FOO")
		require.True(t, found)
		require.Equal(t, "bar", value)
	})

	t.Run("values collects every match", func(t *testing.T) {
		kv := getHeaders()
		require.Equal(t, []string{"World", "Pavlo"}, kv.Values("hello"))
	})

	t.Run("delete", func(t *testing.T) {
		kv := getHeaders().Delete("HELLO")

		want := []Pair{
			{"Foo", "bar"},
			{"Lorem", "ipsum"},
		}

		require.Equal(t, len(want), kv.Len())
		require.Equal(t, want, kv.Expose())
	})

	t.Run("set replaces an existing key in place", func(t *testing.T) {
		kv := getHeaders().Set("HELLO", "no more Pavlo")

		want := []Pair{
			{"Foo", "bar"},
			{"HELLO", "no more Pavlo"},
			{"Lorem", "ipsum"},
		}

		require.Equal(t, want, kv.Expose())
	})

	t.Run("set appends a new key", func(t *testing.T) {
		kv := New().
			Add("Pavlo", "the best").
			Set("Glory to", "Ukraine")

		want := []Pair{
			{"Pavlo", "the best"},
			{"Glory to", "Ukraine"},
		}

		require.Equal(t, want, kv.Expose())
	})

	t.Run("keys are unique", func(t *testing.T) {
		kv := getHeaders()
		require.Equal(t, []string{"Foo", "Hello", "Lorem"}, kv.Keys())
	})

	t.Run("clear empties without freeing capacity", func(t *testing.T) {
		kv := getHeaders()
		capacity := cap(kv.Expose())
		kv.Clear()

		require.True(t, kv.Empty())
		require.Equal(t, capacity, cap(kv.Expose()))
	})

	t.Run("clone is independent of the source", func(t *testing.T) {
		original := getHeaders()
		clone := original.Clone()

		clone.Add("New", "entry")

		require.Equal(t, 4, original.Len())
		require.Equal(t, 5, clone.Len())
	})

	t.Run("iter walks pairs in insertion order", func(t *testing.T) {
		kv := New().Add("a", "1").Add("b", "2")

		var keys []string
		for key, value := range kv.Iter() {
			keys = append(keys, key+"="+value)
		}

		require.Equal(t, []string{"a=1", "b=2"}, keys)
	})
}
