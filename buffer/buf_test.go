package buffer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeapBuffer(t *testing.T) {
	t.Run("write then read round-trips", func(t *testing.T) {
		buf := NewHeapBuffer(8, 64)
		require.NoError(t, buf.WriteBytes([]byte("hello")))
		require.Equal(t, 5, buf.ReadableBytes())

		out := make([]byte, 5)
		require.NoError(t, buf.ReadBytes(out))
		require.Equal(t, "hello", string(out))
		require.Equal(t, 0, buf.ReadableBytes())
	})

	t.Run("grows up to max capacity", func(t *testing.T) {
		buf := NewHeapBuffer(4, 10)
		require.NoError(t, buf.WriteBytes([]byte("0123456789")))
		require.Equal(t, 10, buf.Capacity())

		err := buf.WriteBytes([]byte("x"))
		require.ErrorIs(t, err, ErrBufferOverflow)
	})

	t.Run("discard read bytes compacts forward progress", func(t *testing.T) {
		buf := NewHeapBuffer(16, 16)
		require.NoError(t, buf.WriteBytes([]byte("hello world")))

		discarded := make([]byte, 6)
		require.NoError(t, buf.ReadBytes(discarded))
		buf.DiscardReadBytes()

		require.Equal(t, 0, buf.ReaderIndex())
		rest := make([]byte, buf.ReadableBytes())
		require.NoError(t, buf.ReadBytes(rest))
		require.Equal(t, "world", string(rest))
	})

	t.Run("reference count reaching zero makes the buffer inaccessible", func(t *testing.T) {
		buf := NewHeapBuffer(4, 4)
		require.NoError(t, buf.Retain())
		require.Equal(t, int32(2), buf.ReferenceCount())

		released, err := buf.Release()
		require.NoError(t, err)
		require.False(t, released)

		released, err = buf.Release()
		require.NoError(t, err)
		require.True(t, released)

		require.False(t, buf.IsAccessible())
		_, err = buf.Release()
		require.ErrorIs(t, err, ErrIllegalReferenceCount)
	})

	t.Run("slice shares storage but has independent indices", func(t *testing.T) {
		buf := NewHeapBuffer(16, 16)
		require.NoError(t, buf.WriteBytes([]byte("hello world")))

		slice, err := buf.Slice(6, 5)
		require.NoError(t, err)

		out := make([]byte, 5)
		require.NoError(t, slice.ReadBytes(out))
		require.Equal(t, "world", string(out))
		require.Equal(t, 0, buf.ReaderIndex())
	})

	t.Run("duplicate shares indices with the original", func(t *testing.T) {
		buf := NewHeapBuffer(16, 16)
		require.NoError(t, buf.WriteBytes([]byte("hello")))

		dup, err := buf.Duplicate()
		require.NoError(t, err)

		out := make([]byte, 5)
		require.NoError(t, dup.ReadBytes(out))
		require.Equal(t, 5, buf.ReaderIndex())
	})

	t.Run("write bytes from a stream", func(t *testing.T) {
		buf := NewHeapBuffer(16, 16)
		n, err := buf.WriteBytesFrom(strings.NewReader("streamed"), 8)
		require.NoError(t, err)
		require.Equal(t, 8, n)

		out := make([]byte, 8)
		require.NoError(t, buf.ReadBytes(out))
		require.Equal(t, "streamed", string(out))
	})

	t.Run("write to drains readable bytes into a writer", func(t *testing.T) {
		buf := NewHeapBuffer(16, 16)
		require.NoError(t, buf.WriteBytes([]byte("hello")))

		var out bytes.Buffer
		n, err := buf.WriteTo(&out)
		require.NoError(t, err)
		require.Equal(t, int64(5), n)
		require.Equal(t, "hello", out.String())
	})

	t.Run("copy is independent of the original", func(t *testing.T) {
		buf := NewHeapBuffer(16, 16)
		require.NoError(t, buf.WriteBytes([]byte("hello")))

		cp, err := buf.Copy(0, 5)
		require.NoError(t, err)
		require.NoError(t, cp.WriteUint8('!'))

		require.Equal(t, 5, buf.ReadableBytes())
		out := make([]byte, 6)
		require.NoError(t, cp.ReadBytes(out))
		require.Equal(t, "hello!", string(out))
	})

	t.Run("retained slice keeps the original alive independently", func(t *testing.T) {
		buf := NewHeapBuffer(16, 16)
		require.NoError(t, buf.WriteBytes([]byte("hello world")))

		slice, err := buf.RetainedSlice(6, 5)
		require.NoError(t, err)
		require.Equal(t, int32(2), buf.ReferenceCount())

		released, err := buf.Release()
		require.NoError(t, err)
		require.False(t, released)
		require.True(t, buf.IsAccessible())

		out := make([]byte, 5)
		require.NoError(t, slice.ReadBytes(out))
		require.Equal(t, "world", string(out))

		released, err = slice.Release()
		require.NoError(t, err)
		require.True(t, released)
	})

	t.Run("retained duplicate shares indices and bumps the refcount", func(t *testing.T) {
		buf := NewHeapBuffer(16, 16)
		require.NoError(t, buf.WriteBytes([]byte("hello")))

		dup, err := buf.RetainedDuplicate()
		require.NoError(t, err)
		require.Equal(t, int32(2), buf.ReferenceCount())

		out := make([]byte, 5)
		require.NoError(t, dup.ReadBytes(out))
		require.Equal(t, 5, buf.ReaderIndex())

		_, err = dup.Release()
		require.NoError(t, err)
	})

	t.Run("integer accessors round-trip across endiannesses", func(t *testing.T) {
		buf := NewHeapBuffer(32, 32)

		require.NoError(t, buf.WriteUint16BE(0xCAFE))
		require.NoError(t, buf.WriteUint16LE(0xCAFE))
		require.NoError(t, buf.WriteUint32BE(0xDEADBEEF))
		require.NoError(t, buf.WriteInt64LE(-1))

		be16, err := buf.ReadUint16BE()
		require.NoError(t, err)
		require.Equal(t, uint16(0xCAFE), be16)

		le16, err := buf.ReadUint16LE()
		require.NoError(t, err)
		require.Equal(t, uint16(0xCAFE), le16)

		be32, err := buf.ReadUint32BE()
		require.NoError(t, err)
		require.Equal(t, uint32(0xDEADBEEF), be32)

		neg, err := buf.ReadInt64LE()
		require.NoError(t, err)
		require.Equal(t, int64(-1), neg)
	})

	t.Run("24-bit signed accessor sign-extends correctly", func(t *testing.T) {
		buf := NewHeapBuffer(8, 8)
		require.NoError(t, buf.WriteInt24BE(-1))

		v, err := buf.ReadInt24BE()
		require.NoError(t, err)
		require.Equal(t, int32(-1), v)
	})

	t.Run("read-only buffer rejects writes but allows reads", func(t *testing.T) {
		buf := NewHeapBuffer(16, 16)
		require.NoError(t, buf.WriteBytes([]byte("hello")))

		ro := NewReadOnly(buf)
		require.ErrorIs(t, ro.WriteUint8('!'), ErrUnsupportedOperation)

		out := make([]byte, 5)
		require.NoError(t, ro.ReadBytes(out))
		require.Equal(t, "hello", string(out))
	})

	t.Run("unreleasable buffer absorbs Release without touching the refcount", func(t *testing.T) {
		buf := NewHeapBuffer(4, 4)
		wrapped := NewUnreleasable(buf)

		released, err := wrapped.Release()
		require.NoError(t, err)
		require.False(t, released)
		require.True(t, buf.IsAccessible())

		released, err = buf.Release()
		require.NoError(t, err)
		require.True(t, released)
	})
}

func TestDirectBuffer(t *testing.T) {
	t.Run("pooled buffer grows and round-trips across a release/reacquire cycle", func(t *testing.T) {
		pool := NewPool()

		buf := NewDirectBuffer(pool, 4, 64)
		require.NoError(t, buf.WriteBytes([]byte("0123456789")))
		require.True(t, buf.HasMemoryAddress())

		out := make([]byte, 10)
		require.NoError(t, buf.ReadBytes(out))
		require.Equal(t, "0123456789", string(out))

		released, err := buf.Release()
		require.NoError(t, err)
		require.True(t, released)

		reused := NewDirectBuffer(pool, 4, 64)
		require.NoError(t, reused.WriteBytes([]byte("reused")))
		out2 := make([]byte, 6)
		require.NoError(t, reused.ReadBytes(out2))
		require.Equal(t, "reused", string(out2))
	})
}

func TestAllocator(t *testing.T) {
	t.Run("heap allocator falls back to the configured initial capacity", func(t *testing.T) {
		alloc := NewAllocator(Config{InitialCapacity: 8, MaxCapacity: 64})
		buf := alloc.Buffer(0)
		require.NoError(t, buf.WriteBytes([]byte("12345678")))
		require.Equal(t, 8, buf.ReadableBytes())
	})

	t.Run("pooled allocator hands out direct buffers", func(t *testing.T) {
		alloc := NewPooledAllocator(Config{InitialCapacity: 8, MaxCapacity: 64}, NewPool())
		buf := alloc.Buffer(4)
		require.True(t, buf.HasMemoryAddress())
	})
}

func TestCompositeBuffer(t *testing.T) {
	t.Run("reads walk components left to right", func(t *testing.T) {
		composite := NewCompositeBuffer(64)

		first := NewHeapBuffer(8, 8)
		require.NoError(t, first.WriteBytes([]byte("hello ")))
		require.NoError(t, composite.AddComponent(first, true))

		second := NewHeapBuffer(8, 8)
		require.NoError(t, second.WriteBytes([]byte("world")))
		require.NoError(t, composite.AddComponent(second, true))

		require.Equal(t, 11, composite.Capacity())

		out := make([]byte, 11)
		require.NoError(t, composite.ReadBytes(out))
		require.Equal(t, "hello world", string(out))
	})

	t.Run("adding a component retains it independently of the caller's reference", func(t *testing.T) {
		composite := NewCompositeBuffer(64)
		child := NewHeapBuffer(4, 4)
		require.NoError(t, child.WriteBytes([]byte("abcd")))

		require.NoError(t, composite.AddComponent(child, true))
		released, err := child.Release()
		require.NoError(t, err)
		require.False(t, released)

		out := make([]byte, 4)
		require.NoError(t, composite.ReadBytes(out))
		require.Equal(t, "abcd", string(out))
	})
}
