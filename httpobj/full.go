package httpobj

import "github.com/indigo-web/netpipe/buffer"

// FullRequest bundles headers and the complete, already-aggregated body in
// one object — spec's "full message".
type FullRequest struct {
	Proto         Proto
	Method        Method
	URI           string
	Headers       Headers
	Payload       buffer.Buffer
	DecoderResult DecoderResult
}

func NewFullRequest(proto Proto, method Method, uri string, headers Headers, payload buffer.Buffer, result DecoderResult) *FullRequest {
	return &FullRequest{Proto: proto, Method: method, URI: uri, Headers: headers, Payload: payload, DecoderResult: result}
}

func (f *FullRequest) Result() DecoderResult { return f.DecoderResult }
func (f *FullRequest) GetProto() Proto       { return f.Proto }
func (f *FullRequest) GetHeaders() Headers   { return f.Headers }
func (f *FullRequest) SetHeaders(h Headers)  { f.Headers = h }

// ToRequest collapses this full request into its plain headers-bearing
// counterpart, preserving the DecoderResult.
func (f *FullRequest) ToRequest() *Request {
	return &Request{Proto: f.Proto, Method: f.Method, URI: f.URI, Headers: f.Headers, DecoderResult: f.DecoderResult}
}

func (f *FullRequest) Release() (bool, error) {
	if f.Payload == nil {
		return false, nil
	}

	return f.Payload.Release()
}

// FullResponse bundles headers and the complete body in one object.
type FullResponse struct {
	Proto         Proto
	Status        Code
	Headers       Headers
	Payload       buffer.Buffer
	DecoderResult DecoderResult
}

func NewFullResponse(proto Proto, status Code, headers Headers, payload buffer.Buffer, result DecoderResult) *FullResponse {
	return &FullResponse{Proto: proto, Status: status, Headers: headers, Payload: payload, DecoderResult: result}
}

func (f *FullResponse) Result() DecoderResult { return f.DecoderResult }
func (f *FullResponse) GetProto() Proto       { return f.Proto }
func (f *FullResponse) GetHeaders() Headers   { return f.Headers }
func (f *FullResponse) SetHeaders(h Headers)  { f.Headers = h }

// ToResponse collapses this full response into its plain headers-bearing
// counterpart, preserving the DecoderResult.
func (f *FullResponse) ToResponse() *Response {
	return &Response{Proto: f.Proto, Status: f.Status, Headers: f.Headers, DecoderResult: f.DecoderResult}
}

func (f *FullResponse) Release() (bool, error) {
	if f.Payload == nil {
		return false, nil
	}

	return f.Payload.Release()
}
