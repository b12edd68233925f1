package pipeline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indigo-web/netpipe/pipeline"
)

// upperHandler forwards every string message upper-cased, exercising the
// plain pass-through shape every stage in this module builds on.
type upperHandler struct {
	pipeline.BaseHandler
}

func (upperHandler) ChannelRead(ctx pipeline.Context, msg any) error {
	s, ok := msg.(string)
	if !ok {
		return ctx.FireChannelRead(msg)
	}

	upper := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper[i] = c
	}

	return ctx.FireChannelRead(string(upper))
}

func TestPipeline(t *testing.T) {
	t.Run("fires channel read through a single handler to the unhandled sink", func(t *testing.T) {
		p := pipeline.New(true, nil)

		var captured []any
		p.OnUnhandledRead(func(msg any) { captured = append(captured, msg) })

		require.NoError(t, p.AddLast("upper", &upperHandler{}))
		require.NoError(t, p.FireChannelActive())
		require.NoError(t, p.FireChannelRead("hello"))

		require.Equal(t, []any{"HELLO"}, captured)
	})

	t.Run("removing a handler detaches it from the chain", func(t *testing.T) {
		p := pipeline.New(true, nil)

		var captured []any
		p.OnUnhandledRead(func(msg any) { captured = append(captured, msg) })

		require.NoError(t, p.AddLast("upper", &upperHandler{}))
		require.NoError(t, p.Remove("upper"))
		require.NoError(t, p.FireChannelRead("hello"))

		require.Equal(t, []any{"hello"}, captured)
	})

	t.Run("exception with no handler reaches the unhandled exception sink", func(t *testing.T) {
		p := pipeline.New(true, nil)

		var caught error
		p.OnUnhandledException(func(cause error) { caught = cause })

		boom := errors.New("boom")
		require.NoError(t, p.FireExceptionCaught(boom))
		require.Equal(t, boom, caught)
	})
}

func TestMessageToMessageDecoder(t *testing.T) {
	t.Run("fires one ChannelRead per produced message", func(t *testing.T) {
		p := pipeline.New(true, nil)

		var captured []any
		p.OnUnhandledRead(func(msg any) { captured = append(captured, msg) })

		decoder := &pipeline.MessageToMessageDecoder{
			Decode: func(ctx pipeline.Context, msg any, out *pipeline.Out) error {
				s := msg.(string)
				out.Add(s + "-1")
				out.Add(s + "-2")
				return nil
			},
		}

		require.NoError(t, p.AddLast("decoder", decoder))
		require.NoError(t, p.FireChannelRead("x"))

		require.Equal(t, []any{"x-1", "x-2"}, captured)
	})

	t.Run("a decode error releases produced outputs and raises an exception", func(t *testing.T) {
		p := pipeline.New(true, nil)

		var caught error
		p.OnUnhandledException(func(cause error) { caught = cause })

		released := false
		boom := errors.New("boom")

		decoder := &pipeline.MessageToMessageDecoder{
			Decode: func(ctx pipeline.Context, msg any, out *pipeline.Out) error {
				out.Add(releasableStub{released: &released})
				return boom
			},
		}

		require.NoError(t, p.AddLast("decoder", decoder))
		require.NoError(t, p.FireChannelRead("x"))

		require.Equal(t, boom, caught)
		require.True(t, released)
	})

	t.Run("requests a read when autoRead is off and nothing was produced", func(t *testing.T) {
		p := pipeline.New(false, nil)

		readCalls := 0
		p.OnRead(func() { readCalls++ })

		decoder := &pipeline.MessageToMessageDecoder{
			Decode: func(ctx pipeline.Context, msg any, out *pipeline.Out) error { return nil },
		}

		require.NoError(t, p.AddLast("decoder", decoder))
		require.NoError(t, p.FireChannelRead("x"))
		require.NoError(t, p.FireChannelReadComplete())

		require.Equal(t, 1, readCalls)
	})
}

type releasableStub struct {
	released *bool
}

func (r releasableStub) Release() (bool, error) {
	*r.released = true
	return true, nil
}
