package pipeline

import "github.com/indigo-web/netpipe/logging"

// Context is the API a Handler observes and emits events through. Firing a
// method moves the corresponding event to the next handler in the chain
// (for inbound events) or the previous one (for outbound actions).
type Context interface {
	FireChannelActive() error
	FireChannelInactive() error
	FireChannelRead(msg any) error
	FireChannelReadComplete() error
	FireExceptionCaught(cause error) error

	Write(msg any) error
	Flush() error
	Close() error

	// Read issues an explicit read request to the source. Only meaningful
	// when AutoRead() is false; this is the backpressure hook described in
	// the pipeline contract.
	Read()
	AutoRead() bool

	Logger() logging.Logger
}

// ctxNode is one link of the chain: it wraps a Handler and knows its
// neighbours, so Fire* calls walk to whichever neighbour cares about
// inbound/outbound traffic.
type ctxNode struct {
	name    string
	handler Handler
	prev    *ctxNode
	next    *ctxNode
	p       *Pipeline
}

func (c *ctxNode) FireChannelActive() error {
	if c.next == nil {
		return nil
	}
	return c.next.handler.ChannelActive(c.next)
}

func (c *ctxNode) FireChannelInactive() error {
	if c.next == nil {
		return nil
	}
	return c.next.handler.ChannelInactive(c.next)
}

func (c *ctxNode) FireChannelRead(msg any) error {
	if c.next == nil {
		if c.p.onUnhandledRead != nil {
			c.p.onUnhandledRead(msg)
		}
		return nil
	}
	return c.next.handler.ChannelRead(c.next, msg)
}

func (c *ctxNode) FireChannelReadComplete() error {
	if c.next == nil {
		return nil
	}
	return c.next.handler.ChannelReadComplete(c.next)
}

func (c *ctxNode) FireExceptionCaught(cause error) error {
	if c.next == nil {
		if c.p.onUnhandledException != nil {
			c.p.onUnhandledException(cause)
		}
		return nil
	}
	return c.next.handler.ExceptionCaught(c.next, cause)
}

func (c *ctxNode) Write(msg any) error {
	if c.prev == nil {
		return c.p.writeOutbound(msg)
	}
	if w, ok := c.prev.handler.(OutboundHandler); ok {
		return w.Write(c.prev, msg)
	}
	return c.prev.Write(msg)
}

func (c *ctxNode) Flush() error {
	if c.prev == nil {
		return c.p.flushOutbound()
	}
	if f, ok := c.prev.handler.(OutboundHandler); ok {
		return f.Flush(c.prev)
	}
	return c.prev.Flush()
}

func (c *ctxNode) Close() error {
	return c.p.close()
}

func (c *ctxNode) Read() {
	c.p.read()
}

func (c *ctxNode) AutoRead() bool {
	return c.p.autoRead
}

func (c *ctxNode) Logger() logging.Logger {
	return c.p.logger
}

// OutboundHandler is implemented by handlers that intercept outbound
// writes instead of letting them pass straight through to the transport.
type OutboundHandler interface {
	Write(ctx Context, msg any) error
	Flush(ctx Context) error
}
