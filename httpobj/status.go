package httpobj

// Code is an HTTP status code. Grounded on the teacher's http/status
// package shape (a plain integer with a Text lookup), trimmed to the
// subset the core and its test scenarios actually reference — the core
// never generates a response itself besides the WebSocket 101 upgrade, and
// only inspects incoming responses for 100.
type Code int

const (
	Continue           Code = 100
	SwitchingProtocols Code = 101
	OK                 Code = 200
	BadRequest         Code = 400
)

var statusText = map[Code]string{
	Continue:           "Continue",
	SwitchingProtocols: "Switching Protocols",
	OK:                 "OK",
	BadRequest:         "Bad Request",
}

// Text returns the reason phrase for code, or an empty string if unknown.
func (c Code) Text() string {
	return statusText[c]
}
