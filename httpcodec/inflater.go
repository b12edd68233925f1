package httpcodec

import (
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/indigo-web/netpipe/buffer"
	"github.com/indigo-web/netpipe/embedded"
	"github.com/indigo-web/netpipe/logging"
	"github.com/indigo-web/netpipe/pipeline"
)

// Wrapper names one of the three inflater framings spec §6 lists: a raw
// deflate stream, a zlib-wrapped one, or a gzip-wrapped one.
type Wrapper uint8

const (
	WrapperNone Wrapper = iota
	WrapperZlib
	WrapperGzip
)

// ReaderFactory constructs the klauspost/compress decompressor for a
// framing, given the source of compressed bytes. Exported so websocket's
// permessage-deflate decoder can host the same raw-deflate factory this
// package uses for the "deflate" content-coding token.
type ReaderFactory func(io.Reader) (io.Reader, error)

// NewWrapperFactory returns the ReaderFactory for one of the three
// framings spec §6 names (none/zlib/gzip).
func NewWrapperFactory(w Wrapper) ReaderFactory {
	switch w {
	case WrapperGzip:
		return func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }
	case WrapperZlib:
		return func(r io.Reader) (io.Reader, error) { return zlib.NewReader(r) }
	default:
		return func(r io.Reader) (io.Reader, error) { return flate.NewReader(r), nil }
	}
}

// NewZstdFactory returns the ReaderFactory for the zstd content coding,
// the one wrapper the teacher's codec set supports beyond spec §6's
// literal none/zlib/gzip trio (see SPEC_FULL.md §3).
func NewZstdFactory() ReaderFactory {
	return func(r io.Reader) (io.Reader, error) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}

		return dec.IOReadCloser(), nil
	}
}

// chunkFeed hands compressed byte chunks from the pipeline's calling
// goroutine to the decode goroutine, one push per WriteInbound call, and
// reports back (via progressed) the instant the decode goroutine has
// consumed everything it currently can and is blocked wanting more — the
// signal fireOutputs waits on before it's safe to read pendingOut without
// a lock, and terminal once the decode loop has permanently stopped.
//
// Fetch is only ever called from the single decode goroutine, so started
// needs no synchronization of its own; the progressed/ch/terminal channel
// operations are what establish the happens-before relationship fireOutputs
// relies on.
type chunkFeed struct {
	ch         chan []byte
	fin        chan struct{}
	progressed chan struct{}
	terminal   chan struct{}
	finOnce    sync.Once
	termOnce   sync.Once
	started    bool
}

func newChunkFeed() *chunkFeed {
	return &chunkFeed{
		ch:         make(chan []byte),
		fin:        make(chan struct{}),
		progressed: make(chan struct{}, 1),
		terminal:   make(chan struct{}),
	}
}

// Fetch implements the blocking pull side: it signals progressed (the
// caller side is now free to inspect pendingOut) then waits for the next
// chunk or end-of-stream. The very first call has nothing to report yet —
// no chunk has ever been pushed, so skipping the signal there avoids
// handing fireOutputs a stale token before the first chunk has actually
// been processed.
func (f *chunkFeed) Fetch() ([]byte, error) {
	if f.started {
		select {
		case f.progressed <- struct{}{}:
		default:
		}
	}
	f.started = true

	select {
	case b := <-f.ch:
		return b, nil
	case <-f.fin:
		return nil, io.EOF
	}
}

func (f *chunkFeed) closeFin() {
	f.finOnce.Do(func() { close(f.fin) })
}

func (f *chunkFeed) closeTerminal() {
	f.termOnce.Do(func() { close(f.terminal) })
}

// readerAdapter turns a *chunkFeed into an io.Reader, mirroring the
// teacher's http/codec readerAdapter: buffer whatever the last fetch
// returned, refill on demand.
type readerAdapter struct {
	feed *chunkFeed
	data []byte
	err  error
}

func (r *readerAdapter) Read(p []byte) (n int, err error) {
	if len(r.data) == 0 {
		if r.err != nil {
			return 0, r.err
		}

		r.data, r.err = r.feed.Fetch()
	}

	n = copy(p, r.data)
	r.data = r.data[n:]
	if len(r.data) == 0 {
		err = r.err
	}

	return n, err
}

// inflateHandler is the single handler an embedded.Channel hosts to run a
// klauspost/compress decompressor as a pipeline stage: ChannelRead feeds
// one buffer's bytes in and drains whatever the decompressor could
// produce from them.
type inflateHandler struct {
	pipeline.BaseHandler

	factory ReaderFactory
	alloc   buffer.Allocator
	feed    *chunkFeed

	pendingOut []buffer.Buffer
	loopErr    error
}

func newInflateHandler(factory ReaderFactory, alloc buffer.Allocator) *inflateHandler {
	return &inflateHandler{factory: factory, alloc: alloc, feed: newChunkFeed()}
}

func (h *inflateHandler) HandlerAdded(pipeline.Context) error {
	go h.run()
	return nil
}

func (h *inflateHandler) run() {
	adapter := &readerAdapter{feed: h.feed}

	reader, err := h.factory(adapter)
	if err != nil {
		h.loopErr = err
		h.feed.closeTerminal()
		return
	}

	scratch := make([]byte, 32*1024)

	for {
		n, err := reader.Read(scratch)
		if n > 0 {
			buf := h.alloc.Buffer(n)
			if werr := buf.WriteBytes(scratch[:n]); werr != nil {
				h.loopErr = werr
				break
			}
			h.pendingOut = append(h.pendingOut, buf)
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.loopErr = err
			}
			break
		}
	}

	h.feed.closeTerminal()
}

// ChannelRead consumes msg (a buffer.Buffer of raw compressed bytes),
// hands its contents to the decode goroutine, waits for it to catch up,
// then forwards whatever it produced.
func (h *inflateHandler) ChannelRead(ctx pipeline.Context, msg any) error {
	buf := msg.(buffer.Buffer)

	data := make([]byte, buf.ReadableBytes())
	if err := buf.ReadBytes(data); err != nil {
		return err
	}
	if _, err := buf.Release(); err != nil {
		return err
	}

	select {
	case h.feed.ch <- data:
	case <-h.feed.terminal:
		return h.fireOutputs(ctx)
	}

	select {
	case <-h.feed.progressed:
	case <-h.feed.terminal:
	}

	return h.fireOutputs(ctx)
}

func (h *inflateHandler) fireOutputs(ctx pipeline.Context) error {
	for _, out := range h.pendingOut {
		if err := ctx.FireChannelRead(out); err != nil {
			return err
		}
	}
	h.pendingOut = h.pendingOut[:0]

	if h.loopErr != nil {
		return h.loopErr
	}

	return nil
}

// ChannelInactive closes the feed, waits for the decode goroutine to
// settle, and flushes any residual output — this is what backs
// embedded.Channel.Finish's "flushes, marks end-of-stream" contract.
func (h *inflateHandler) ChannelInactive(ctx pipeline.Context) error {
	h.feed.closeFin()
	<-h.feed.terminal

	if err := h.fireOutputs(ctx); err != nil {
		return err
	}

	return ctx.FireChannelInactive()
}

// NewInflaterChannel hosts a single decompressor instance in a fresh
// embedded.Channel, ready to receive raw compressed buffer.Buffer chunks
// via WriteInbound and emit decompressed buffer.Buffer chunks via
// ReadInbound.
func NewInflaterChannel(factory ReaderFactory, alloc buffer.Allocator, logger logging.Logger) (*embedded.Channel, error) {
	return embedded.New(newInflateHandler(factory, alloc), logger)
}
