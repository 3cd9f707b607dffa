package record

import (
	"encoding/binary"
	"math"
)

// Value is a 16-byte tagged-union operand scratch area, large enough to
// carry any base type in BaseType plus the 128-bit return payload spec
// §4.1 allows. It intentionally is not an `any`: boxing a scalar into an
// interface would allocate on every AMO, defeating the zero-alloc fast
// path (spec §4.5).
type Value struct {
	raw [16]byte
}

func (v *Value) AsUint64() uint64 {
	return binary.LittleEndian.Uint64(v.raw[0:8])
}

func (v *Value) SetUint64(x uint64) {
	binary.LittleEndian.PutUint64(v.raw[0:8], x)
}

func (v *Value) AsInt64() int64  { return int64(v.AsUint64()) }
func (v *Value) SetInt64(x int64) { v.SetUint64(uint64(x)) }

func (v *Value) AsUint32() uint32  { return uint32(v.AsUint64()) }
func (v *Value) SetUint32(x uint32) { v.SetUint64(uint64(x)) }

func (v *Value) AsInt32() int32  { return int32(v.AsUint64()) }
func (v *Value) SetInt32(x int32) { v.SetUint64(uint64(uint32(x))) }

func (v *Value) AsUint16() uint16  { return uint16(v.AsUint64()) }
func (v *Value) SetUint16(x uint16) { v.SetUint64(uint64(x)) }

func (v *Value) AsInt16() int16  { return int16(v.AsUint64()) }
func (v *Value) SetInt16(x int16) { v.SetUint64(uint64(uint16(x))) }

func (v *Value) AsUint8() uint8  { return uint8(v.AsUint64()) }
func (v *Value) SetUint8(x uint8) { v.SetUint64(uint64(x)) }

func (v *Value) AsInt8() int8  { return int8(v.AsUint64()) }
func (v *Value) SetInt8(x int8) { v.SetUint64(uint64(uint8(x))) }

func (v *Value) AsFloat32() float32 {
	return math.Float32frombits(uint32(v.AsUint64()))
}

func (v *Value) SetFloat32(x float32) {
	v.SetUint64(uint64(math.Float32bits(x)))
}

func (v *Value) AsFloat64() float64 {
	return math.Float64frombits(v.AsUint64())
}

func (v *Value) SetFloat64(x float64) {
	v.SetUint64(math.Float64bits(x))
}

// AsLongDouble/SetLongDouble alias float64: Go has no 80/128-bit float,
// so TypeLongDouble is carried at float64 precision (see typed package).
func (v *Value) AsLongDouble() float64  { return v.AsFloat64() }
func (v *Value) SetLongDouble(x float64) { v.SetFloat64(x) }

func (v *Value) AsSize() uint64  { return v.AsUint64() }
func (v *Value) SetSize(x uint64) { v.SetUint64(x) }

func (v *Value) AsPtrdiff() int64  { return v.AsInt64() }
func (v *Value) SetPtrdiff(x int64) { v.SetInt64(x) }

// Raw exposes the first n bytes of the scratch area for handlers that
// move a payload of dynamic width (the proxy's memory-op handlers,
// which copy directly into a symmetric-heap arena rather than going
// through a typed accessor).
func (v *Value) Raw(n int) []byte { return v.raw[:n] }

// SetRaw copies b into the scratch area's low bytes, zeroing the rest.
func (v *Value) SetRaw(b []byte) {
	v.raw = [16]byte{}
	copy(v.raw[:], b)
}

// TypeWidth returns the byte width of a BaseType's in-memory
// representation (spec §3's operand type set), used by handlers that
// move a raw payload of t's width between a Value and a heap arena.
func TypeWidth(t BaseType) int {
	switch t {
	case TypeUint8, TypeInt8:
		return 1
	case TypeUint16, TypeInt16:
		return 2
	case TypeUint32, TypeInt32, TypeFloat32:
		return 4
	case TypeUint64, TypeInt64, TypeFloat64, TypeLongDouble, TypeSize, TypePtrdiff:
		return 8
	default:
		return 0
	}
}
