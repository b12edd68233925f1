package websocket

import (
	"fmt"

	"github.com/indigo-web/netpipe/buffer"
	"github.com/indigo-web/netpipe/embedded"
	"github.com/indigo-web/netpipe/httpcodec"
	"github.com/indigo-web/netpipe/logging"
	"github.com/indigo-web/netpipe/pipeline"
)

// frameTail is the 4-octet trailer RFC 7692 §7.2.1 has the sender strip
// and the receiver restore before inflating: an empty stored deflate
// block, letting the stream end mid-block without a final block marker.
var frameTail = [4]byte{0x00, 0x00, 0xFF, 0xFF}

// ExtensionFilterFunc decides whether a given frame is subject to
// decompression at all — control frames and frames the peer marked
// uncompressed (RSV1 clear) normally return false.
type ExtensionFilterFunc func(f *Frame) bool

// AppendFrameTailFunc decides whether frameTail should be appended before
// draining a given frame — RFC 7692 has the sender omit it only when it
// chose to, so this is a hook rather than "only on the final fragment".
type AppendFrameTailFunc func(f *Frame) bool

// NewRSVFunc computes the RSV bits of the replacement, decompressed
// frame — typically the input's bits with RSV1 (the "this was compressed"
// marker) cleared.
type NewRSVFunc func(f *Frame) uint8

// DeflateDecoder is the permessage-deflate frame decoder (spec C5.2): a
// pipeline stage sitting after the raw WebSocket frame decoder, turning
// compressed text/binary frames into their decompressed replacements.
//
// It is itself a pipeline.MessageToMessageDecoder (Decode bound to
// decodeFrame by NewDeflateDecoder): each input frame produces at most one
// output, and an invalid-framing error is released and raised by the
// shared base rather than by hand-rolled bookkeeping here.
type DeflateDecoder struct {
	pipeline.MessageToMessageDecoder

	Alloc  buffer.Allocator
	Logger logging.Logger
	// NoContext mirrors the negotiated server_no_context_takeover
	// parameter: the inflater is torn down and rebuilt fresh after every
	// complete message rather than carried over to the next one.
	NoContext bool

	ExtensionFilter ExtensionFilterFunc
	AppendFrameTail AppendFrameTailFunc
	NewRSV          NewRSVFunc

	decoder       *embedded.Channel
	inProgress    bool
	initialOpcode Opcode
}

// NewDeflateDecoder returns a DeflateDecoder with the spec-default hooks:
// text/binary frames carrying RSV1, and continuation frames of a compressed
// message (or carrying RSV1 themselves), are subject to decompression; the
// trailer is appended on the final fragment of a message, and RSV1 is
// cleared on the way out.
func NewDeflateDecoder(alloc buffer.Allocator, noContext bool, logger logging.Logger) *DeflateDecoder {
	d := &DeflateDecoder{
		Alloc:           alloc,
		Logger:          logger,
		NoContext:       noContext,
		AppendFrameTail: func(f *Frame) bool { return f.Final },
		NewRSV:          func(f *Frame) uint8 { return f.RSV &^ RSV1 },
	}

	// A continuation frame is subject to decompression while a compressed
	// message is in progress. One carrying RSV1 outside such a message is
	// claimed too, so decodeFrame rejects it as an unexpected initial frame
	// type instead of passing it through.
	d.ExtensionFilter = func(f *Frame) bool {
		switch f.Opcode {
		case OpcodeClose, OpcodePing, OpcodePong:
			return false
		case OpcodeContinuation:
			return d.inProgress || f.HasRSV1()
		default:
			return f.HasRSV1()
		}
	}

	d.MessageToMessageDecoder.Decode = d.decodeFrame

	return d
}

// decodeFrame implements spec §4.5.2's per-frame algorithm. Fragmentation
// (inProgress) and compression-context persistence (decoder, which
// NoContext alone decides whether to tear down) are tracked separately: a
// context-takeover message reuses the previous message's decoder, but
// still starts a fresh fragmentation sequence that must begin with
// text/binary, not continuation.
func (d *DeflateDecoder) decodeFrame(_ pipeline.Context, msg any, out *pipeline.Out) error {
	frame, ok := msg.(*Frame)
	if !ok {
		out.Add(msg)
		return nil
	}

	if !d.ExtensionFilter(frame) {
		out.Add(frame)
		return nil
	}

	if !d.inProgress {
		if frame.Opcode != OpcodeText && frame.Opcode != OpcodeBinary {
			return frameTypeError(httpcodec.UnexpectedInitialFrameType, frame.Opcode)
		}

		if d.decoder == nil {
			decoder, err := httpcodec.NewInflaterChannel(httpcodec.NewWrapperFactory(httpcodec.WrapperNone), d.Alloc, d.Logger)
			if err != nil {
				return err
			}
			d.decoder = decoder
		}

		d.inProgress = true
		d.initialOpcode = frame.Opcode
	} else if frame.Opcode != OpcodeContinuation {
		return frameTypeError(httpcodec.UnexpectedFrameType, frame.Opcode)
	}

	readable := frame.Payload != nil && frame.Payload.ReadableBytes() > 0

	if frame.Payload != nil {
		if err := frame.Payload.Retain(); err != nil {
			return err
		}
		if err := d.decoder.WriteInbound(frame.Payload); err != nil {
			return err
		}
	}

	if d.AppendFrameTail(frame) {
		tail := d.Alloc.Buffer(len(frameTail))
		if err := tail.WriteBytes(frameTail[:]); err != nil {
			return err
		}
		if err := d.decoder.WriteInbound(tail); err != nil {
			return err
		}
	}

	composite := d.Alloc.CompositeDirectBuffer()

	components, err := d.drainInto(composite)
	if err != nil {
		return err
	}

	if readable && components == 0 {
		if _, err := composite.Release(); err != nil {
			return err
		}
		return &httpcodec.CodecError{Kind: httpcodec.CannotReadUncompressed}
	}

	final := frame.Final

	if final {
		d.inProgress = false

		if d.NoContext {
			// A message's deflate stream ends on a sync flush rather than a
			// final block, so the inflater's end-of-stream error on teardown
			// is logged, not returned.
			if err := d.cleanup(); err != nil && d.Logger != nil {
				d.Logger.Printf("websocket: deflate decoder cleanup: %v", err)
			}
		}
	}

	out.Add(&Frame{Opcode: frame.Opcode, Final: final, RSV: d.NewRSV(frame), Payload: composite})

	return nil
}

// drainInto reads every decompressed chunk the embedded decoder currently
// holds into composite, releasing this handler's own reference to each
// chunk once the composite holds its own (AddComponent retains on add).
func (d *DeflateDecoder) drainInto(composite *buffer.CompositeBuffer) (components int, err error) {
	for {
		produced, ok := d.decoder.ReadInbound()
		if !ok {
			return components, nil
		}

		buf := produced.(buffer.Buffer)
		if buf.ReadableBytes() == 0 {
			if _, err := buf.Release(); err != nil {
				return components, err
			}
			continue
		}

		if err := composite.AddComponent(buf, true); err != nil {
			return components, err
		}
		if _, err := buf.Release(); err != nil {
			return components, err
		}

		components++
	}
}

func (d *DeflateDecoder) cleanup() error {
	if d.decoder == nil {
		return nil
	}

	decoder := d.decoder
	d.decoder = nil

	return decoder.FinishAndReleaseAll()
}

func (d *DeflateDecoder) ChannelInactive(ctx pipeline.Context) error {
	if err := d.cleanup(); err != nil && d.Logger != nil {
		d.Logger.Printf("websocket: deflate decoder cleanup: %v", err)
	}

	return ctx.FireChannelInactive()
}

func (d *DeflateDecoder) HandlerRemoved(pipeline.Context) error {
	if err := d.cleanup(); err != nil && d.Logger != nil {
		d.Logger.Printf("websocket: deflate decoder cleanup: %v", err)
	}

	return nil
}

func frameTypeError(kind httpcodec.Kind, opcode Opcode) error {
	return &httpcodec.CodecError{Kind: kind, Cause: fmt.Errorf("opcode %d", opcode)}
}
