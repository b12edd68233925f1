package websocket_test

import (
	"bytes"
	"compress/flate"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indigo-web/netpipe/buffer"
	"github.com/indigo-web/netpipe/embedded"
	"github.com/indigo-web/netpipe/httpcodec"
	"github.com/indigo-web/netpipe/websocket"
)

func deflateFlush(t *testing.T, chunks ...string) (full []byte, marks []int) {
	t.Helper()

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)

	for _, chunk := range chunks {
		_, err := w.Write([]byte(chunk))
		require.NoError(t, err)
		require.NoError(t, w.Flush())
		marks = append(marks, buf.Len())
	}

	return buf.Bytes(), marks
}

func payloadBuffer(alloc buffer.Allocator, data []byte) buffer.Buffer {
	buf := alloc.Buffer(len(data))
	if err := buf.WriteBytes(data); err != nil {
		panic(err)
	}
	return buf
}

func readAll(t *testing.T, buf buffer.Buffer) []byte {
	t.Helper()

	out := make([]byte, buf.ReadableBytes())
	require.NoError(t, buf.ReadBytes(out))
	return out
}

func TestDeflateDecoder(t *testing.T) {
	alloc := buffer.NewAllocator(buffer.DefaultConfig)

	t.Run("single-frame message decodes fully", func(t *testing.T) {
		full, marks := deflateFlush(t, "hello world")
		compressed := full[:marks[0]-4] // strip the trailer; AppendFrameTail re-adds it

		ch, err := embedded.New(websocket.NewDeflateDecoder(alloc, false, nil), nil)
		require.NoError(t, err)

		frame := &websocket.Frame{
			Opcode:  websocket.OpcodeText,
			Final:   true,
			RSV:     websocket.RSV1,
			Payload: payloadBuffer(alloc, compressed),
		}
		require.NoError(t, ch.WriteInbound(frame))

		out, ok := ch.ReadInbound()
		require.True(t, ok)

		result := out.(*websocket.Frame)
		require.Equal(t, websocket.OpcodeText, result.Opcode)
		require.True(t, result.Final)
		require.False(t, result.HasRSV1())
		require.Equal(t, "hello world", string(readAll(t, result.Payload)))
	})

	t.Run("fragmented message decodes across continuation frames", func(t *testing.T) {
		full, marks := deflateFlush(t, "hello ", "world this ", "is fragmented")

		frame1 := full[:marks[0]]
		frame2 := full[marks[0]:marks[1]]
		frame3 := full[marks[1]:marks[2]-4] // trailer stripped, re-added as the final fragment

		ch, err := embedded.New(websocket.NewDeflateDecoder(alloc, false, nil), nil)
		require.NoError(t, err)

		require.NoError(t, ch.WriteInbound(&websocket.Frame{
			Opcode: websocket.OpcodeText, Final: false, RSV: websocket.RSV1,
			Payload: payloadBuffer(alloc, frame1),
		}))
		out1, ok := ch.ReadInbound()
		require.True(t, ok)
		require.Equal(t, "hello ", string(readAll(t, out1.(*websocket.Frame).Payload)))

		require.NoError(t, ch.WriteInbound(&websocket.Frame{
			Opcode: websocket.OpcodeContinuation, Final: false,
			Payload: payloadBuffer(alloc, frame2),
		}))
		out2, ok := ch.ReadInbound()
		require.True(t, ok)
		require.Equal(t, "world this ", string(readAll(t, out2.(*websocket.Frame).Payload)))

		require.NoError(t, ch.WriteInbound(&websocket.Frame{
			Opcode: websocket.OpcodeContinuation, Final: true,
			Payload: payloadBuffer(alloc, frame3),
		}))
		out3, ok := ch.ReadInbound()
		require.True(t, ok)
		require.Equal(t, "is fragmented", string(readAll(t, out3.(*websocket.Frame).Payload)))
	})

	t.Run("wrong initial opcode is a codec error", func(t *testing.T) {
		ch, err := embedded.New(websocket.NewDeflateDecoder(alloc, false, nil), nil)
		require.NoError(t, err)

		err = ch.WriteInbound(&websocket.Frame{
			Opcode: websocket.OpcodeContinuation, Final: true, RSV: websocket.RSV1,
			Payload: payloadBuffer(alloc, []byte{0x00}),
		})

		var codecErr *httpcodec.CodecError
		require.True(t, errors.As(err, &codecErr))
		require.Equal(t, httpcodec.UnexpectedInitialFrameType, codecErr.Kind)
	})

	t.Run("non-empty payload decoding to zero bytes is a protocol violation", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		require.NoError(t, err)
		require.NoError(t, w.Flush())
		emptyCompressed := buf.Bytes()
		require.NotEmpty(t, emptyCompressed)

		ch, err := embedded.New(websocket.NewDeflateDecoder(alloc, false, nil), nil)
		require.NoError(t, err)

		err = ch.WriteInbound(&websocket.Frame{
			Opcode: websocket.OpcodeText, Final: true, RSV: websocket.RSV1,
			Payload: payloadBuffer(alloc, emptyCompressed),
		})

		var codecErr *httpcodec.CodecError
		require.True(t, errors.As(err, &codecErr))
		require.Equal(t, httpcodec.CannotReadUncompressed, codecErr.Kind)
	})

	t.Run("context takeover reuses the same inflater across messages", func(t *testing.T) {
		full, marks := deflateFlush(t, "repeated phrase repeated phrase", "repeated phrase again")

		ch, err := embedded.New(websocket.NewDeflateDecoder(alloc, false, nil), nil)
		require.NoError(t, err)

		require.NoError(t, ch.WriteInbound(&websocket.Frame{
			Opcode: websocket.OpcodeText, Final: true, RSV: websocket.RSV1,
			Payload: payloadBuffer(alloc, full[:marks[0]-4]),
		}))
		out1, ok := ch.ReadInbound()
		require.True(t, ok)
		require.Equal(t, "repeated phrase repeated phrase", string(readAll(t, out1.(*websocket.Frame).Payload)))

		require.NoError(t, ch.WriteInbound(&websocket.Frame{
			Opcode: websocket.OpcodeText, Final: true, RSV: websocket.RSV1,
			Payload: payloadBuffer(alloc, full[marks[0]:marks[1]-4]),
		}))
		out2, ok := ch.ReadInbound()
		require.True(t, ok)
		require.Equal(t, "repeated phrase again", string(readAll(t, out2.(*websocket.Frame).Payload)))
	})

	t.Run("no_context starts each message with a fresh decoder", func(t *testing.T) {
		full1, marks1 := deflateFlush(t, "first message")
		full2, marks2 := deflateFlush(t, "second message")

		ch, err := embedded.New(websocket.NewDeflateDecoder(alloc, true, nil), nil)
		require.NoError(t, err)

		require.NoError(t, ch.WriteInbound(&websocket.Frame{
			Opcode: websocket.OpcodeText, Final: true, RSV: websocket.RSV1,
			Payload: payloadBuffer(alloc, full1[:marks1[0]-4]),
		}))
		out1, ok := ch.ReadInbound()
		require.True(t, ok)
		require.Equal(t, "first message", string(readAll(t, out1.(*websocket.Frame).Payload)))

		require.NoError(t, ch.WriteInbound(&websocket.Frame{
			Opcode: websocket.OpcodeText, Final: true, RSV: websocket.RSV1,
			Payload: payloadBuffer(alloc, full2[:marks2[0]-4]),
		}))
		out2, ok := ch.ReadInbound()
		require.True(t, ok)
		require.Equal(t, "second message", string(readAll(t, out2.(*websocket.Frame).Payload)))
	})
}
