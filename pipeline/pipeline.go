package pipeline

import "github.com/indigo-web/netpipe/logging"

// Pipeline is an ordered chain of handlers sharing one transport. It is
// intentionally small: embedded.Channel (used by the HTTP content decoder
// and the WebSocket deflate decoder) is a one-handler instance of it, and a full server would chain many more ahead of the application
// handlers.
type Pipeline struct {
	headNode *ctxNode
	tailNode *ctxNode

	autoRead bool
	logger   logging.Logger

	writeOutboundFn func(msg any) error
	flushFn         func() error
	closeFn         func() error
	readFn          func()

	onUnhandledRead       func(msg any)
	onUnhandledException func(cause error)
}

// New creates an empty pipeline. autoRead is what Context.AutoRead()
// reports: MessageToMessageDecoder acts on its need_read/backpressure
// signal by calling Context.Read() only when it is false. Context.Read()
// itself always forwards to the OnRead hook.
func New(autoRead bool, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = defaultLogger{}
	}

	return &Pipeline{autoRead: autoRead, logger: logger}
}

// OnOutboundWrite/OnFlush/OnClose/OnRead wire the pipeline's outbound edge
// to the real transport (or, for an embedded sub-pipeline, to an in-memory
// queue). They're separated from New so a pipeline can be constructed
// before its transport exists.
func (p *Pipeline) OnOutboundWrite(fn func(msg any) error) { p.writeOutboundFn = fn }
func (p *Pipeline) OnFlush(fn func() error)                { p.flushFn = fn }
func (p *Pipeline) OnClose(fn func() error)                { p.closeFn = fn }
func (p *Pipeline) OnRead(fn func())                       { p.readFn = fn }

// OnUnhandledRead/OnUnhandledException capture whatever reaches the end of
// the inbound chain without being consumed — this is how embedded.Channel
// harvests a handler's output.
func (p *Pipeline) OnUnhandledRead(fn func(msg any))          { p.onUnhandledRead = fn }
func (p *Pipeline) OnUnhandledException(fn func(cause error)) { p.onUnhandledException = fn }

func (p *Pipeline) writeOutbound(msg any) error {
	if p.writeOutboundFn == nil {
		return nil
	}
	return p.writeOutboundFn(msg)
}

func (p *Pipeline) flushOutbound() error {
	if p.flushFn == nil {
		return nil
	}
	return p.flushFn()
}

func (p *Pipeline) close() error {
	if p.closeFn == nil {
		return nil
	}
	return p.closeFn()
}

func (p *Pipeline) read() {
	if p.readFn != nil {
		p.readFn()
	}
}

// AddLast appends a handler to the end of the chain and fires
// HandlerAdded on it.
func (p *Pipeline) AddLast(name string, h Handler) error {
	node := &ctxNode{name: name, handler: h, p: p}

	if p.tailNode == nil {
		p.headNode, p.tailNode = node, node
	} else {
		node.prev = p.tailNode
		p.tailNode.next = node
		p.tailNode = node
	}

	return h.HandlerAdded(node)
}

// Remove detaches the named handler, firing HandlerRemoved on it first.
func (p *Pipeline) Remove(name string) error {
	for n := p.headNode; n != nil; n = n.next {
		if n.name != name {
			continue
		}

		if err := n.handler.HandlerRemoved(n); err != nil {
			return err
		}

		if n.prev != nil {
			n.prev.next = n.next
		} else {
			p.headNode = n.next
		}
		if n.next != nil {
			n.next.prev = n.prev
		} else {
			p.tailNode = n.prev
		}

		return nil
	}

	return nil
}

// FireChannelActive/FireChannelInactive/FireChannelRead/
// FireChannelReadComplete/FireExceptionCaught inject an event at the head
// of the chain, as if it had just arrived from the transport.
func (p *Pipeline) FireChannelActive() error {
	if p.headNode == nil {
		return nil
	}
	return p.headNode.handler.ChannelActive(p.headNode)
}

func (p *Pipeline) FireChannelInactive() error {
	if p.headNode == nil {
		return nil
	}
	return p.headNode.handler.ChannelInactive(p.headNode)
}

func (p *Pipeline) FireChannelRead(msg any) error {
	if p.headNode == nil {
		if p.onUnhandledRead != nil {
			p.onUnhandledRead(msg)
		}
		return nil
	}
	return p.headNode.handler.ChannelRead(p.headNode, msg)
}

func (p *Pipeline) FireChannelReadComplete() error {
	if p.headNode == nil {
		return nil
	}
	return p.headNode.handler.ChannelReadComplete(p.headNode)
}

func (p *Pipeline) FireExceptionCaught(cause error) error {
	if p.headNode == nil {
		if p.onUnhandledException != nil {
			p.onUnhandledException(cause)
		}
		return nil
	}
	return p.headNode.handler.ExceptionCaught(p.headNode, cause)
}

// WriteOutbound pushes msg in from the tail, as the application would to
// send something out through the chain.
func (p *Pipeline) WriteOutbound(msg any) error {
	if p.tailNode == nil {
		return p.writeOutbound(msg)
	}
	if ob, ok := p.tailNode.handler.(OutboundHandler); ok {
		return ob.Write(p.tailNode, msg)
	}
	return p.writeOutbound(msg)
}

type defaultLogger struct{}

func (defaultLogger) Printf(string, ...any) {}
