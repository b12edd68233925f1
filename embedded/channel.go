// Package embedded implements the in-memory, single-handler pipeline the
// HTTP content decoder (httpcodec) and the WebSocket deflate decoder
// (websocket) use to host a codec: writing a buffer in drives it through
// the handler synchronously, and whatever the handler produces queues up
// for the caller to drain. There is no transport underneath it, no
// goroutine, and no concurrency: Channel is meant to be owned exclusively
// by a single outer handler and driven from a single event-loop thread, as
// spec'd by the release-discipline and single-owner rules of the pipeline
// contract.
package embedded

import (
	"github.com/indigo-web/netpipe/logging"
	"github.com/indigo-web/netpipe/pipeline"
)

// Channel is a one-handler pipeline with an in-memory outbound sink: it
// gives a codec implementation a Handler to live in without requiring a
// real transport.
type Channel struct {
	p        *pipeline.Pipeline
	out      []any
	err      error
	finished bool
}

// New wires handler into a fresh embedded pipeline and fires the lifecycle
// events a real channel would fire on connect: HandlerAdded then
// ChannelActive. An exception reaching the end of the chain with nothing
// left to handle it is captured rather than dropped, so it surfaces from
// the next WriteInbound/Finish call instead of vanishing silently.
func New(handler pipeline.Handler, logger logging.Logger) (*Channel, error) {
	c := &Channel{p: pipeline.New(true, logger)}
	c.p.OnUnhandledRead(func(msg any) {
		c.out = append(c.out, msg)
	})
	c.p.OnUnhandledException(func(cause error) {
		if c.err == nil {
			c.err = cause
		}
	})

	if err := c.p.AddLast("codec", handler); err != nil {
		return nil, err
	}

	if err := c.p.FireChannelActive(); err != nil {
		return nil, err
	}

	return c, nil
}

// takeError returns and clears whatever unhandled exception has been
// captured since the last call.
func (c *Channel) takeError() error {
	err := c.err
	c.err = nil
	return err
}

// WriteInbound feeds buf through the handler as if it had just arrived
// from the wire. Whatever the handler produces (zero or more messages) is
// queued for ReadInbound. An exception the handler raised while processing
// msg is returned here rather than only reaching the unhandled sink.
func (c *Channel) WriteInbound(msg any) error {
	if err := c.p.FireChannelRead(msg); err != nil {
		return err
	}

	if err := c.p.FireChannelReadComplete(); err != nil {
		return err
	}

	return c.takeError()
}

// ReadInbound dequeues one produced message in FIFO order. ok is false
// once the queue is drained.
func (c *Channel) ReadInbound() (msg any, ok bool) {
	if len(c.out) == 0 {
		return nil, false
	}

	msg = c.out[0]
	c.out[0] = nil
	c.out = c.out[1:]

	return msg, true
}

// HasOutput reports whether ReadInbound has something to return.
func (c *Channel) HasOutput() bool {
	return len(c.out) > 0
}

// Finish tears the handler down (ChannelInactive then HandlerRemoved) and
// reports whether anything remains queued for ReadInbound. Calling Finish
// more than once is a no-op returning the same answer.
func (c *Channel) Finish() (hasOutput bool, err error) {
	if c.finished {
		return c.HasOutput(), nil
	}
	c.finished = true

	if err = c.p.FireChannelInactive(); err != nil {
		return c.HasOutput(), err
	}

	if err = c.p.Remove("codec"); err != nil {
		return c.HasOutput(), err
	}

	return c.HasOutput(), c.takeError()
}

// FinishAndReleaseAll finishes the channel and releases every buffer still
// queued in it, matching spec's finish_and_release_all: a caller tearing
// down abnormally must not leak whatever the codec had buffered.
func (c *Channel) FinishAndReleaseAll() error {
	_, err := c.Finish()

	for _, msg := range c.out {
		if r, ok := msg.(pipeline.Releasable); ok {
			_, _ = r.Release()
		}
	}
	c.out = nil

	return err
}
