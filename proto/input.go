package proto

import "encoding/binary"

// KeyPayload encodes a MsgKey payload: code u16 LE, press u8, rune i32 LE.
func KeyPayload(code uint16, press bool, r rune) []byte {
	b := make([]byte, 7)
	binary.LittleEndian.PutUint16(b[0:2], code)
	if press {
		b[2] = 1
	}
	binary.LittleEndian.PutUint32(b[3:7], uint32(r))
	return b
}

// DecodeKeyPayload decodes a MsgKey payload.
func DecodeKeyPayload(b []byte) (code uint16, press bool, r rune, ok bool) {
	if len(b) != 7 {
		return 0, false, 0, false
	}
	code = binary.LittleEndian.Uint16(b[0:2])
	press = b[2] != 0
	r = rune(int32(binary.LittleEndian.Uint32(b[3:7])))
	return code, press, r, true
}

// TapPayload encodes a MsgTap payload: x i16 LE, y i16 LE (framebuffer pixels).
func TapPayload(x, y int) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b[0:2], uint16(int16(x)))
	binary.LittleEndian.PutUint16(b[2:4], uint16(int16(y)))
	return b
}

// DecodeTapPayload decodes a MsgTap payload.
func DecodeTapPayload(b []byte) (x, y int, ok bool) {
	if len(b) != 4 {
		return 0, 0, false
	}
	x = int(int16(binary.LittleEndian.Uint16(b[0:2])))
	y = int(int16(binary.LittleEndian.Uint16(b[2:4])))
	return x, y, true
}
