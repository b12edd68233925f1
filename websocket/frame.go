package websocket

import "github.com/indigo-web/netpipe/buffer"

// Opcode identifies a WebSocket frame's payload interpretation, per RFC
// 6455 §5.2.
type Opcode uint8

const (
	OpcodeContinuation Opcode = 0x0
	OpcodeText         Opcode = 0x1
	OpcodeBinary       Opcode = 0x2
	OpcodeClose        Opcode = 0x8
	OpcodePing         Opcode = 0x9
	OpcodePong         Opcode = 0xA
)

// RSV bits, in the order they appear in the frame header.
const (
	RSV1 uint8 = 0x4
	RSV2 uint8 = 0x2
	RSV3 uint8 = 0x1
)

// Frame is a single WebSocket frame, already stripped of its wire framing
// (masking, length encoding): opcode, fragmentation and reserved bits, and
// the payload.
type Frame struct {
	Opcode  Opcode
	Final   bool
	RSV     uint8
	Payload buffer.Buffer
}

func (f *Frame) HasRSV1() bool { return f.RSV&RSV1 != 0 }
func (f *Frame) HasRSV2() bool { return f.RSV&RSV2 != 0 }
func (f *Frame) HasRSV3() bool { return f.RSV&RSV3 != 0 }
