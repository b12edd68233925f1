package httpobj

import "github.com/indigo-web/netpipe/buffer"

// Content is a body chunk. Last marks the terminating chunk of a message
// (spec's "sentinel last variant"); only a last chunk may carry trailing
// headers.
type Content struct {
	Payload         buffer.Buffer
	Last            bool
	TrailingHeaders Headers
	DecoderResult   DecoderResult
}

// NewContent wraps a non-terminating body chunk.
func NewContent(payload buffer.Buffer, result DecoderResult) *Content {
	return &Content{Payload: payload, DecoderResult: result}
}

// NewLastContent builds the terminating chunk of a message. trailing may
// be nil or empty; payload may be nil for an empty final chunk.
func NewLastContent(payload buffer.Buffer, trailing Headers, result DecoderResult) *Content {
	return &Content{Payload: payload, Last: true, TrailingHeaders: trailing, DecoderResult: result}
}

func (c *Content) Result() DecoderResult { return c.DecoderResult }

// Release forwards to the payload buffer, satisfying pipeline.Releasable
// so the message-to-message decoder base can release unconsumed content
// on the error path without special-casing HTTP objects.
func (c *Content) Release() (bool, error) {
	if c.Payload == nil {
		return false, nil
	}

	return c.Payload.Release()
}

// Retain forwards to the payload buffer. Used before re-adding a content
// chunk to a decoder's output when passing it through unchanged.
func (c *Content) Retain() error {
	if c.Payload == nil {
		return nil
	}

	return c.Payload.Retain()
}
