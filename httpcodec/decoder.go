// Package httpcodec implements the HTTP content decoder pipeline stage
// (spec C3): a message-to-message decoder, placed right after the HTTP
// object decoder, that transparently decompresses bodies while rewriting
// the framing headers and preserving 100-Continue semantics.
package httpcodec

import (
	"errors"
	"strings"

	"github.com/indigo-web/netpipe/buffer"
	"github.com/indigo-web/netpipe/embedded"
	"github.com/indigo-web/netpipe/httpobj"
	"github.com/indigo-web/netpipe/logging"
	"github.com/indigo-web/netpipe/pipeline"
)

const identity = "identity"

// NewContentDecoderHook constructs the embedded decoder for a given
// Content-Encoding token, or reports ok=false to mean "pass through
// unchanged" — spec §4.3's new_content_decoder subclass hook.
type NewContentDecoderHook func(encoding string) (*embedded.Channel, bool, error)

// TargetContentEncodingHook picks the outgoing Content-Encoding once
// decoding is active — spec §4.3's target_content_encoding subclass hook.
// The default (nil) hook always targets identity.
type TargetContentEncodingHook func(source string) string

// ContentDecoder is the C3 stage. Construct with NewContentDecompressor
// for the teacher-derived gzip/deflate/zstd set, or build a *ContentDecoder
// directly with a custom NewContentDecoderHook.
//
// It is itself a pipeline.MessageToMessageDecoder: Decode is bound to its
// own decode method on HandlerAdded, so the fan-out, release-on-error and
// need_read bookkeeping all come from the shared base rather than being
// duplicated here.
type ContentDecoder struct {
	pipeline.MessageToMessageDecoder

	NewDecoder     NewContentDecoderHook
	TargetEncoding TargetContentEncodingHook

	decoder          *embedded.Channel
	continueResponse bool
	logger           logging.Logger
}

// NewContentDecompressor returns a ContentDecoder recognizing the
// teacher's codec set (gzip, x-gzip, deflate, zstd) plus identity
// pass-through, allocating decompressed output through alloc.
func NewContentDecompressor(alloc buffer.Allocator, logger logging.Logger) *ContentDecoder {
	return &ContentDecoder{
		NewDecoder: func(encoding string) (*embedded.Channel, bool, error) {
			var factory ReaderFactory

			switch encoding {
			case "gzip", "x-gzip":
				factory = NewWrapperFactory(WrapperGzip)
			case "deflate":
				factory = NewWrapperFactory(WrapperNone)
			case "zstd":
				factory = NewZstdFactory()
			default:
				return nil, false, nil
			}

			ch, err := NewInflaterChannel(factory, alloc, logger)
			return ch, ch != nil, err
		},
		logger: logger,
	}
}

// HandlerAdded binds Decode to this instance's decode method before
// delegating to the embedded base, so a ContentDecoder built either via
// NewContentDecompressor or as a bare literal with NewDecoder set works
// without any extra wiring step.
func (d *ContentDecoder) HandlerAdded(ctx pipeline.Context) error {
	d.MessageToMessageDecoder.Decode = d.decode
	return d.MessageToMessageDecoder.HandlerAdded(ctx)
}

func (d *ContentDecoder) targetEncoding(source string) string {
	if d.TargetEncoding == nil {
		return identity
	}

	return d.TargetEncoding(source)
}

func (d *ContentDecoder) cleanup() error {
	if d.decoder == nil {
		return nil
	}

	dec := d.decoder
	d.decoder = nil

	return dec.FinishAndReleaseAll()
}

func (d *ContentDecoder) decode(_ pipeline.Context, msg any, out *pipeline.Out) error {
	if d.continueResponse {
		return d.passThroughDuringContinuation(msg, out)
	}

	if hb, ok := msg.(httpobj.HeadersBearing); ok {
		return d.decodeHeadersBearing(hb, out)
	}

	if content, ok := msg.(*httpobj.Content); ok {
		return d.decodeContent(content, out)
	}

	out.Add(msg)
	return nil
}

// passThroughDuringContinuation implements spec §4.3 step 2: while a
// 100-Continue is outstanding, nothing is interpreted as body framing —
// every message is retained and forwarded unchanged, until the
// terminating content chunk clears the flag.
func (d *ContentDecoder) passThroughDuringContinuation(msg any, out *pipeline.Out) error {
	if err := retainPayload(msg); err != nil {
		return err
	}

	if isLastContent(msg) {
		d.continueResponse = false
	}

	out.Add(msg)
	return nil
}

func (d *ContentDecoder) decodeHeadersBearing(hb httpobj.HeadersBearing, out *pipeline.Out) error {
	if status, ok := httpobj.StatusOf(hb); ok && status == httpobj.Continue {
		if !isLastContent(hb) {
			d.continueResponse = true
		}
		return d.passThroughDuringContinuation(hb, out)
	}

	if d.decoder != nil {
		return newCodecError(InvalidHTTPMessage, errors.New("headers-bearing message arrived before the previous body finished"))
	}

	headers := hb.GetHeaders()
	encoding := strings.TrimSpace(headers.ValueOr(httpobj.HeaderContentEncoding, identity))
	if encoding == "" {
		encoding = identity
	}

	var (
		decoder *embedded.Channel
		active  bool
		err     error
	)
	if d.NewDecoder != nil {
		decoder, active, err = d.NewDecoder(encoding)
		if err != nil {
			return err
		}
	}

	payload, isFull := httpobj.ExtractPayload(hb)

	if !active {
		if isFull && payload != nil {
			if err := payload.Retain(); err != nil {
				return err
			}
		}
		out.Add(hb)
		return nil
	}

	d.decoder = decoder

	if headers.Has(httpobj.HeaderContentLength) {
		headers.Delete(httpobj.HeaderContentLength)
		headers.Set(httpobj.HeaderTransferEncoding, "chunked")
	}

	target := d.targetEncoding(encoding)
	if target == identity {
		headers.Delete(httpobj.HeaderContentEncoding)
	} else {
		headers.Set(httpobj.HeaderContentEncoding, target)
	}
	hb.SetHeaders(headers)

	out.Add(httpobj.ToPlain(hb))

	if isFull && payload != nil {
		return d.feedChunk(payload, true, httpobj.NewHeaders(), out)
	}

	return nil
}

// retainPayload retains whatever buffer msg carries, so that forwarding it
// downstream unchanged still leaves it with its own owning reference.
func retainPayload(msg any) error {
	switch v := msg.(type) {
	case *httpobj.Content:
		return v.Retain()
	case *httpobj.FullRequest:
		if v.Payload == nil {
			return nil
		}
		return v.Payload.Retain()
	case *httpobj.FullResponse:
		if v.Payload == nil {
			return nil
		}
		return v.Payload.Retain()
	default:
		return nil
	}
}

// isLastContent reports whether msg is the terminating content of a
// message: either a Content chunk marked Last, or a full message (which
// bundles its final content in the same object).
func isLastContent(msg any) bool {
	switch v := msg.(type) {
	case *httpobj.Content:
		return v.Last
	case *httpobj.FullRequest, *httpobj.FullResponse:
		return true
	default:
		return false
	}
}

func (d *ContentDecoder) decodeContent(content *httpobj.Content, out *pipeline.Out) error {
	if d.decoder == nil {
		if content.Payload != nil {
			if err := content.Retain(); err != nil {
				return err
			}
		}
		out.Add(content)
		return nil
	}

	trailing := content.TrailingHeaders
	if trailing == nil {
		trailing = httpobj.NewHeaders()
	}

	return d.feedChunk(content.Payload, content.Last, trailing, out)
}

func (d *ContentDecoder) feedChunk(payload buffer.Buffer, last bool, trailing httpobj.Headers, out *pipeline.Out) error {
	if payload != nil {
		if err := d.decoder.WriteInbound(payload); err != nil {
			return err
		}

		if err := d.drain(out); err != nil {
			return err
		}
	}

	if !last {
		return nil
	}

	if _, err := d.decoder.Finish(); err != nil {
		return err
	}
	if err := d.drain(out); err != nil {
		return err
	}

	d.decoder = nil

	result := httpobj.Success()
	if trailing == nil || trailing.Empty() {
		out.Add(httpobj.NewLastContent(nil, nil, result))
	} else {
		out.Add(httpobj.NewLastContent(nil, trailing, result))
	}

	return nil
}

func (d *ContentDecoder) drain(out *pipeline.Out) error {
	for {
		produced, ok := d.decoder.ReadInbound()
		if !ok {
			return nil
		}

		buf := produced.(buffer.Buffer)
		if buf.ReadableBytes() == 0 {
			if _, err := buf.Release(); err != nil {
				return err
			}
			continue
		}

		out.Add(httpobj.NewContent(buf, httpobj.Success()))
	}
}

func (d *ContentDecoder) HandlerRemoved(ctx pipeline.Context) error {
	if err := d.cleanup(); err != nil {
		return ctx.FireExceptionCaught(err)
	}

	return nil
}

func (d *ContentDecoder) ChannelInactive(ctx pipeline.Context) error {
	if err := d.cleanup(); err != nil {
		if ferr := ctx.FireExceptionCaught(err); ferr != nil {
			return ferr
		}
	}

	return ctx.FireChannelInactive()
}
