// Package websocket implements the RFC 6455 server handshake and, in
// deflate.go, the RFC 7692 permessage-deflate frame decoder (spec C5):
// the sub-pipeline that turns an upgraded HTTP exchange into a WebSocket
// connection.
package websocket

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/indigo-web/netpipe/buffer"
	"github.com/indigo-web/netpipe/httpobj"
	"github.com/indigo-web/netpipe/logging"
)

// handshakeGUID is the fixed key defined by RFC 6455 §1.3, concatenated
// onto the client's Sec-WebSocket-Key before hashing.
const handshakeGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// ErrMissingKey is returned when the request carries no (or an empty)
// Sec-WebSocket-Key header — the handshake cannot proceed without it.
var ErrMissingKey = errors.New("handshake_missing_key")

// SelectSubprotocolFunc picks one of the client-offered subprotocols, in
// the order they appeared in Sec-WebSocket-Protocol, reporting ok=false to
// mean "none acceptable" (the header is then omitted from the response).
type SelectSubprotocolFunc func(offered []string) (chosen string, ok bool)

// FirstMatch returns a SelectSubprotocolFunc that walks supported in the
// caller's preference order and picks the first one also present in the
// client's offer.
func FirstMatch(supported ...string) SelectSubprotocolFunc {
	return func(offered []string) (string, bool) {
		for _, want := range supported {
			for _, got := range offered {
				if got == want {
					return want, true
				}
			}
		}

		return "", false
	}
}

// Handshaker builds 101 Switching Protocols responses out of upgrade
// requests. The zero value negotiates no subprotocol.
type Handshaker struct {
	// SelectSubprotocol negotiates Sec-WebSocket-Protocol. Nil means
	// never echo a subprotocol back.
	SelectSubprotocol SelectSubprotocolFunc
	// Logger receives a debug line whenever the client offered a
	// subprotocol and none of them could be negotiated.
	Logger logging.Logger
}

// NewHandshakeResponse builds the 101 response for req, per RFC 6455
// §4.2.2: validate and answer Sec-WebSocket-Key, merge extraHeaders,
// negotiate a subprotocol if one was offered. The response's body is an
// empty buffer drawn from alloc, matching the full-message shape every
// other response in the module takes.
func (h *Handshaker) NewHandshakeResponse(req *httpobj.Request, extraHeaders httpobj.Headers, alloc buffer.Allocator) (*httpobj.FullResponse, error) {
	key := req.Headers.Value(httpobj.HeaderSecWebSocketKey)
	if key == "" {
		return nil, ErrMissingKey
	}

	headers := httpobj.NewHeaders()
	if extraHeaders != nil {
		for name, value := range extraHeaders.Iter() {
			headers.Add(name, value)
		}
	}

	headers.Set(httpobj.HeaderUpgrade, "websocket")
	headers.Set(httpobj.HeaderConnection, "Upgrade")
	headers.Set(httpobj.HeaderSecWebSocketAccept, acceptKey(key))

	if csv := req.Headers.Value(httpobj.HeaderSecWebSocketProto); csv != "" {
		if offered := splitCSV(csv); len(offered) > 0 {
			var (
				chosen string
				ok     bool
			)
			if h.SelectSubprotocol != nil {
				chosen, ok = h.SelectSubprotocol(offered)
			}

			if ok {
				headers.Set(httpobj.HeaderSecWebSocketProto, chosen)
			} else if h.Logger != nil {
				h.Logger.Printf("websocket: no subprotocol negotiated, offered=%v", offered)
			}
		}
	}

	body := alloc.Buffer(0)

	return httpobj.NewFullResponse(req.Proto, httpobj.SwitchingProtocols, headers, body, httpobj.Success()), nil
}

// acceptKey computes the Sec-WebSocket-Accept value for a given
// Sec-WebSocket-Key, per RFC 6455 §1.3.
func acceptKey(key string) string {
	sum := sha1.Sum([]byte(key + handshakeGUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// splitCSV splits a comma-separated header value into trimmed, non-empty
// tokens, mirroring the teacher's upgrade-header token scan (cut on a
// separator byte, trim surrounding space, skip empties).
func splitCSV(line string) []string {
	var tokens []string

	for len(line) > 0 {
		token, rest := cutbyte(line, ',')
		line = rest

		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		tokens = append(tokens, token)
	}

	return tokens
}

// cutbyte splits s at the first occurrence of sep, returning the part
// before it and the remainder (sep consumed). If sep isn't present, the
// whole of s is returned as the first half and the remainder is empty.
func cutbyte(s string, sep byte) (before, after string) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:]
		}
	}

	return s, ""
}
