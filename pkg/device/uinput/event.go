package uinput

import (
	"encoding/binary"
	"unsafe"
)

// The kernel's struct input_event starts with two longs (seconds and
// microseconds), so the payload offset follows the native word size.
const (
	timeSize  = 2 * int(unsafe.Sizeof(uintptr(0)))
	typeOff   = timeSize
	codeOff   = timeSize + 2
	valueOff  = timeSize + 4
	eventSize = timeSize + 8
)

// encodeEvent lays out one struct input_event. The timestamp is left zero;
// the kernel stamps events written to uinput.
func encodeEvent(buf []byte, typ, code uint16, value int32) []byte {
	var ev [eventSize]byte
	binary.NativeEndian.PutUint16(ev[typeOff:], typ)
	binary.NativeEndian.PutUint16(ev[codeOff:], code)
	binary.NativeEndian.PutUint32(ev[valueOff:], uint32(value))
	return append(buf, ev[:]...)
}

// report returns the records for one value change followed by SYN_REPORT.
func report(pairs ...record) []byte {
	buf := make([]byte, 0, (len(pairs)+1)*eventSize)
	for _, p := range pairs {
		buf = encodeEvent(buf, p.typ, p.code, p.value)
	}
	return encodeEvent(buf, evSyn, synReport, 0)
}

type record struct {
	typ   uint16
	code  uint16
	value int32
}
