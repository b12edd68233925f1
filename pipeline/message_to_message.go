package pipeline

// Releasable is implemented by any message carrying a reference-counted
// resource (buffer.Buffer itself, or an HTTP object wrapping one). The
// release-discipline contract says a handler must release what it fully
// consumes and retain what it forwards; Out.ReleaseAll and the decoder
// base use this to do so mechanically on the error path.
type Releasable interface {
	Release() (bool, error)
}

// Out collects the zero-or-more replacement messages a message-to-message
// decoder produces for a single input.
type Out struct {
	items []any
}

// Add appends a produced message.
func (o *Out) Add(msg any) {
	o.items = append(o.items, msg)
}

// Len reports how many messages have been produced so far.
func (o *Out) Len() int { return len(o.items) }

// ReleaseAll releases every Releasable item. Used on the decoder's error
// path, where outputs produced before the failure must not leak.
func (o *Out) ReleaseAll() {
	for _, item := range o.items {
		if r, ok := item.(Releasable); ok {
			_, _ = r.Release()
		}
	}
}

// DecodeFunc is the single method a message-to-message decoder implements:
// given the inbound message, append zero or more replacements to out.
type DecodeFunc func(ctx Context, msg any, out *Out) error

// MessageToMessageDecoder is the base machinery shared by the HTTP content
// decoder and the WebSocket deflate decoder: it runs Decode, fires
// ChannelRead once per produced output (releasing everything on failure),
// and raises the need_read backpressure signal described in the pipeline
// contract whenever a channelRead produced nothing.
type MessageToMessageDecoder struct {
	BaseHandler
	Decode DecodeFunc

	needRead bool
}

func (d *MessageToMessageDecoder) ChannelRead(ctx Context, msg any) error {
	out := &Out{}

	if err := d.Decode(ctx, msg, out); err != nil {
		out.ReleaseAll()
		return ctx.FireExceptionCaught(err)
	}

	for _, produced := range out.items {
		if err := ctx.FireChannelRead(produced); err != nil {
			return err
		}
	}

	d.needRead = out.Len() == 0

	return nil
}

func (d *MessageToMessageDecoder) ChannelReadComplete(ctx Context) error {
	if err := ctx.FireChannelReadComplete(); err != nil {
		return err
	}

	if d.needRead && !ctx.AutoRead() {
		ctx.Read()
	}

	return nil
}
