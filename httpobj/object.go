// Package httpobj implements the HTTP object data model the content
// decoder (httpcodec) reads and rewrites: the abstract union of a
// headers-bearing message (request or response) and a content chunk
// (possibly the terminating one, possibly carrying trailing headers), plus
// the "full" variant that bundles both in a single object. Concrete types
// stand in for what spec.md describes as a tagged union; a type switch
// over the small closed set below is the idiomatic Go equivalent.
package httpobj

import "github.com/indigo-web/netpipe/buffer"

// Object is implemented by every value that travels through the content
// decoder: headers-bearing messages, content chunks, and full messages.
type Object interface {
	Result() DecoderResult
}

// HeadersBearing is implemented by anything that exposes a header set and
// a protocol version: Request, Response, and their "full" counterparts.
type HeadersBearing interface {
	Object
	GetProto() Proto
	GetHeaders() Headers
	SetHeaders(Headers)
}

// Request is a plain (non-full) headers-bearing request: headers decoded,
// body framed separately as Content objects.
type Request struct {
	Proto         Proto
	Method        Method
	URI           string
	Headers       Headers
	DecoderResult DecoderResult
}

func NewRequest(proto Proto, method Method, uri string, headers Headers, result DecoderResult) *Request {
	return &Request{Proto: proto, Method: method, URI: uri, Headers: headers, DecoderResult: result}
}

func (r *Request) Result() DecoderResult  { return r.DecoderResult }
func (r *Request) GetProto() Proto        { return r.Proto }
func (r *Request) GetHeaders() Headers    { return r.Headers }
func (r *Request) SetHeaders(h Headers)   { r.Headers = h }

// Response is a plain (non-full) headers-bearing response.
type Response struct {
	Proto         Proto
	Status        Code
	Headers       Headers
	DecoderResult DecoderResult
}

func NewResponse(proto Proto, status Code, headers Headers, result DecoderResult) *Response {
	return &Response{Proto: proto, Status: status, Headers: headers, DecoderResult: result}
}

func (r *Response) Result() DecoderResult { return r.DecoderResult }
func (r *Response) GetProto() Proto       { return r.Proto }
func (r *Response) GetHeaders() Headers   { return r.Headers }
func (r *Response) SetHeaders(h Headers)  { r.Headers = h }

// ToPlain collapses a full message into its plain headers-bearing
// counterpart, preserving its DecoderResult — per spec's design-notes Open
// Question (a), the copy keeps the full message's decoder result, and
// downstream content chunks compute their own.
func ToPlain(obj HeadersBearing) HeadersBearing {
	switch v := obj.(type) {
	case *FullRequest:
		return v.ToRequest()
	case *FullResponse:
		return v.ToResponse()
	default:
		return obj
	}
}

// ExtractPayload returns the body buffer carried by a full message, if
// obj is one.
func ExtractPayload(obj HeadersBearing) (payload buffer.Buffer, ok bool) {
	switch v := obj.(type) {
	case *FullRequest:
		return v.Payload, true
	case *FullResponse:
		return v.Payload, true
	default:
		return nil, false
	}
}

// StatusOf returns the status code carried by obj, if obj is a response
// (plain or full).
func StatusOf(obj HeadersBearing) (code Code, ok bool) {
	switch v := obj.(type) {
	case *Response:
		return v.Status, true
	case *FullResponse:
		return v.Status, true
	default:
		return 0, false
	}
}
