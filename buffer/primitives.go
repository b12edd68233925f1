package buffer

import "encoding/binary"

// Primitive accessors. Bounds are checked by GetBytes/SetBytes before any
// byte is touched, so a failed get/set never mutates the buffer.

func (b *buf) GetUint8(index int) (uint8, error) {
	var tmp [1]byte
	if err := b.GetBytes(index, tmp[:]); err != nil {
		return 0, err
	}
	return tmp[0], nil
}

func (b *buf) SetUint8(index int, v uint8) error {
	return b.SetBytes(index, []byte{v})
}

func (b *buf) ReadUint8() (uint8, error) {
	v, err := b.GetUint8(b.idx.readerIndex)
	if err == nil {
		b.idx.readerIndex++
	}
	return v, err
}

func (b *buf) WriteUint8(v uint8) error { return b.WriteBytes([]byte{v}) }

func (b *buf) GetInt8(index int) (int8, error) {
	v, err := b.GetUint8(index)
	return int8(v), err
}

func (b *buf) SetInt8(index int, v int8) error { return b.SetUint8(index, uint8(v)) }

func (b *buf) ReadInt8() (int8, error) {
	v, err := b.ReadUint8()
	return int8(v), err
}

func (b *buf) WriteInt8(v int8) error { return b.WriteUint8(uint8(v)) }

func (b *buf) GetUint16BE(index int) (uint16, error) {
	var tmp [2]byte
	if err := b.GetBytes(index, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(tmp[:]), nil
}

func (b *buf) GetUint16LE(index int) (uint16, error) {
	var tmp [2]byte
	if err := b.GetBytes(index, tmp[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(tmp[:]), nil
}

func (b *buf) SetUint16BE(index int, v uint16) error {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return b.SetBytes(index, tmp[:])
}

func (b *buf) SetUint16LE(index int, v uint16) error {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return b.SetBytes(index, tmp[:])
}

func (b *buf) ReadUint16BE() (uint16, error) {
	v, err := b.GetUint16BE(b.idx.readerIndex)
	if err == nil {
		b.idx.readerIndex += 2
	}
	return v, err
}

func (b *buf) ReadUint16LE() (uint16, error) {
	v, err := b.GetUint16LE(b.idx.readerIndex)
	if err == nil {
		b.idx.readerIndex += 2
	}
	return v, err
}

func (b *buf) WriteUint16BE(v uint16) error {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return b.WriteBytes(tmp[:])
}

func (b *buf) WriteUint16LE(v uint16) error {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return b.WriteBytes(tmp[:])
}

func (b *buf) GetInt16BE(index int) (int16, error) {
	v, err := b.GetUint16BE(index)
	return int16(v), err
}

func (b *buf) GetInt16LE(index int) (int16, error) {
	v, err := b.GetUint16LE(index)
	return int16(v), err
}

func (b *buf) SetInt16BE(index int, v int16) error { return b.SetUint16BE(index, uint16(v)) }
func (b *buf) SetInt16LE(index int, v int16) error { return b.SetUint16LE(index, uint16(v)) }

func (b *buf) ReadInt16BE() (int16, error) {
	v, err := b.ReadUint16BE()
	return int16(v), err
}

func (b *buf) ReadInt16LE() (int16, error) {
	v, err := b.ReadUint16LE()
	return int16(v), err
}

func (b *buf) WriteInt16BE(v int16) error { return b.WriteUint16BE(uint16(v)) }
func (b *buf) WriteInt16LE(v int16) error { return b.WriteUint16LE(uint16(v)) }

// 24-bit accessors: the unsigned getters zero-extend into a uint32, the
// signed getters sign-extend into an int32, and setters truncate to the low
// 3 bytes.

func (b *buf) GetUint24BE(index int) (uint32, error) {
	var tmp [3]byte
	if err := b.GetBytes(index, tmp[:]); err != nil {
		return 0, err
	}
	return uint32(tmp[0])<<16 | uint32(tmp[1])<<8 | uint32(tmp[2]), nil
}

func (b *buf) GetUint24LE(index int) (uint32, error) {
	var tmp [3]byte
	if err := b.GetBytes(index, tmp[:]); err != nil {
		return 0, err
	}
	return uint32(tmp[0]) | uint32(tmp[1])<<8 | uint32(tmp[2])<<16, nil
}

func (b *buf) SetUint24BE(index int, v uint32) error {
	tmp := [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
	return b.SetBytes(index, tmp[:])
}

func (b *buf) SetUint24LE(index int, v uint32) error {
	tmp := [3]byte{byte(v), byte(v >> 8), byte(v >> 16)}
	return b.SetBytes(index, tmp[:])
}

func (b *buf) ReadUint24BE() (uint32, error) {
	v, err := b.GetUint24BE(b.idx.readerIndex)
	if err == nil {
		b.idx.readerIndex += 3
	}
	return v, err
}

func (b *buf) ReadUint24LE() (uint32, error) {
	v, err := b.GetUint24LE(b.idx.readerIndex)
	if err == nil {
		b.idx.readerIndex += 3
	}
	return v, err
}

func (b *buf) WriteUint24BE(v uint32) error {
	tmp := [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
	return b.WriteBytes(tmp[:])
}

func (b *buf) WriteUint24LE(v uint32) error {
	tmp := [3]byte{byte(v), byte(v >> 8), byte(v >> 16)}
	return b.WriteBytes(tmp[:])
}

func signExtend24(v uint32) int32 {
	if v&0x800000 != 0 {
		v |= 0xFF000000
	}
	return int32(v)
}

func (b *buf) GetInt24BE(index int) (int32, error) {
	v, err := b.GetUint24BE(index)
	return signExtend24(v), err
}

func (b *buf) GetInt24LE(index int) (int32, error) {
	v, err := b.GetUint24LE(index)
	return signExtend24(v), err
}

func (b *buf) SetInt24BE(index int, v int32) error { return b.SetUint24BE(index, uint32(v)&0xFFFFFF) }
func (b *buf) SetInt24LE(index int, v int32) error { return b.SetUint24LE(index, uint32(v)&0xFFFFFF) }

func (b *buf) ReadInt24BE() (int32, error) {
	v, err := b.ReadUint24BE()
	return signExtend24(v), err
}

func (b *buf) ReadInt24LE() (int32, error) {
	v, err := b.ReadUint24LE()
	return signExtend24(v), err
}

func (b *buf) WriteInt24BE(v int32) error { return b.WriteUint24BE(uint32(v) & 0xFFFFFF) }
func (b *buf) WriteInt24LE(v int32) error { return b.WriteUint24LE(uint32(v) & 0xFFFFFF) }

func (b *buf) GetUint32BE(index int) (uint32, error) {
	var tmp [4]byte
	if err := b.GetBytes(index, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(tmp[:]), nil
}

func (b *buf) GetUint32LE(index int) (uint32, error) {
	var tmp [4]byte
	if err := b.GetBytes(index, tmp[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(tmp[:]), nil
}

func (b *buf) SetUint32BE(index int, v uint32) error {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return b.SetBytes(index, tmp[:])
}

func (b *buf) SetUint32LE(index int, v uint32) error {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return b.SetBytes(index, tmp[:])
}

func (b *buf) ReadUint32BE() (uint32, error) {
	v, err := b.GetUint32BE(b.idx.readerIndex)
	if err == nil {
		b.idx.readerIndex += 4
	}
	return v, err
}

func (b *buf) ReadUint32LE() (uint32, error) {
	v, err := b.GetUint32LE(b.idx.readerIndex)
	if err == nil {
		b.idx.readerIndex += 4
	}
	return v, err
}

func (b *buf) WriteUint32BE(v uint32) error {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return b.WriteBytes(tmp[:])
}

func (b *buf) WriteUint32LE(v uint32) error {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return b.WriteBytes(tmp[:])
}

func (b *buf) GetInt32BE(index int) (int32, error) {
	v, err := b.GetUint32BE(index)
	return int32(v), err
}

func (b *buf) GetInt32LE(index int) (int32, error) {
	v, err := b.GetUint32LE(index)
	return int32(v), err
}

func (b *buf) SetInt32BE(index int, v int32) error { return b.SetUint32BE(index, uint32(v)) }
func (b *buf) SetInt32LE(index int, v int32) error { return b.SetUint32LE(index, uint32(v)) }

func (b *buf) ReadInt32BE() (int32, error) {
	v, err := b.ReadUint32BE()
	return int32(v), err
}

func (b *buf) ReadInt32LE() (int32, error) {
	v, err := b.ReadUint32LE()
	return int32(v), err
}

func (b *buf) WriteInt32BE(v int32) error { return b.WriteUint32BE(uint32(v)) }
func (b *buf) WriteInt32LE(v int32) error { return b.WriteUint32LE(uint32(v)) }

func (b *buf) GetUint64BE(index int) (uint64, error) {
	var tmp [8]byte
	if err := b.GetBytes(index, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(tmp[:]), nil
}

func (b *buf) GetUint64LE(index int) (uint64, error) {
	var tmp [8]byte
	if err := b.GetBytes(index, tmp[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(tmp[:]), nil
}

func (b *buf) SetUint64BE(index int, v uint64) error {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return b.SetBytes(index, tmp[:])
}

func (b *buf) SetUint64LE(index int, v uint64) error {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return b.SetBytes(index, tmp[:])
}

func (b *buf) ReadUint64BE() (uint64, error) {
	v, err := b.GetUint64BE(b.idx.readerIndex)
	if err == nil {
		b.idx.readerIndex += 8
	}
	return v, err
}

func (b *buf) ReadUint64LE() (uint64, error) {
	v, err := b.GetUint64LE(b.idx.readerIndex)
	if err == nil {
		b.idx.readerIndex += 8
	}
	return v, err
}

func (b *buf) WriteUint64BE(v uint64) error {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return b.WriteBytes(tmp[:])
}

func (b *buf) WriteUint64LE(v uint64) error {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return b.WriteBytes(tmp[:])
}

func (b *buf) GetInt64BE(index int) (int64, error) {
	v, err := b.GetUint64BE(index)
	return int64(v), err
}

func (b *buf) GetInt64LE(index int) (int64, error) {
	v, err := b.GetUint64LE(index)
	return int64(v), err
}

func (b *buf) SetInt64BE(index int, v int64) error { return b.SetUint64BE(index, uint64(v)) }
func (b *buf) SetInt64LE(index int, v int64) error { return b.SetUint64LE(index, uint64(v)) }

func (b *buf) ReadInt64BE() (int64, error) {
	v, err := b.ReadUint64BE()
	return int64(v), err
}

func (b *buf) ReadInt64LE() (int64, error) {
	v, err := b.ReadUint64LE()
	return int64(v), err
}

func (b *buf) WriteInt64BE(v int64) error { return b.WriteUint64BE(uint64(v)) }
func (b *buf) WriteInt64LE(v int64) error { return b.WriteUint64LE(uint64(v)) }
