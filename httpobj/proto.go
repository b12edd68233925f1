package httpobj

// Proto identifies the HTTP protocol version a message was framed with.
// The core only ever produces/consumes HTTP/1.x traffic; HTTP/2 framing is
// out of scope (see spec's Non-goals).
type Proto uint8

const (
	Unknown Proto = iota
	HTTP10
	HTTP11
)

func (p Proto) String() string {
	switch p {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	default:
		return "HTTP/?.?"
	}
}
