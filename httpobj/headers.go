package httpobj

import "github.com/indigo-web/netpipe/kv"

// Headers is the ordered, case-insensitive multimap backing every HTTP
// object's header set — spec's "ordered multimap of case-insensitive ASCII
// names to opaque byte-sequence values", realised directly on kv.Storage,
// the teacher's header-storage type.
type Headers = *kv.Storage

// NewHeaders returns an empty Headers.
func NewHeaders() Headers {
	return kv.New()
}

const (
	HeaderContentEncoding    = "Content-Encoding"
	HeaderContentLength      = "Content-Length"
	HeaderTransferEncoding   = "Transfer-Encoding"
	HeaderUpgrade            = "Upgrade"
	HeaderConnection         = "Connection"
	HeaderSecWebSocketKey    = "Sec-WebSocket-Key"
	HeaderSecWebSocketAccept = "Sec-WebSocket-Accept"
	HeaderSecWebSocketProto  = "Sec-WebSocket-Protocol"
	HeaderSecWebSocketVer    = "Sec-WebSocket-Version"
)
