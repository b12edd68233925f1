package websocket

// DecoderConfig is the immutable configuration a frame decoder is built
// with, mirroring the teacher's nested config-struct idiom.
type DecoderConfig struct {
	// MaxFramePayloadLength bounds a single frame's payload size.
	MaxFramePayloadLength int
	// AllowExtensions permits RSV bits / negotiated extensions such as
	// permessage-deflate. When false, any non-zero RSV bit is a protocol
	// violation.
	AllowExtensions bool
	// AllowMaskMismatch relaxes the server-must-expect-masked-frames rule
	// from RFC 6455 §5.1, for transports that already strip masking.
	AllowMaskMismatch bool
	// ExpectMaskedFrames is true for a server-side decoder: every client
	// frame must be masked.
	ExpectMaskedFrames bool
}

// DefaultDecoderConfig returns the server-side defaults: masked frames
// required, extensions permitted, a generous 1 MiB frame payload ceiling.
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		MaxFramePayloadLength: 1 << 20,
		AllowExtensions:       true,
		AllowMaskMismatch:     false,
		ExpectMaskedFrames:    true,
	}
}
