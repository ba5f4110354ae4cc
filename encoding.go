// encoding.go: the binary encoder facade the change detector uses to turn
// a filtered DataValue into comparable bytes (spec.md §4.G).
//
// The wire format itself is an implementation detail (spec.md §6: "Wire
// formats: none at this boundary") — no example repo in the pack ships an
// OPC-UA-shaped binary codec, so this is a hand-rolled deterministic
// encoder over encoding/binary; see DESIGN.md for the stdlib
// justification. The stack-buffer-then-heap-allocate discipline mirrors
// open62541's UA_encodeBinary/UA_calcSizeBinary split.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import (
	"encoding/binary"
	"math"
)

// stackBufferSize is the size of the caller-provided buffer tried before
// falling back to a heap allocation sized by CalcSizeDataValue.
const stackBufferSize = 256

// CalcSizeDataValue returns the exact number of bytes EncodeDataValue would
// write for dv, so a caller can preallocate precisely on buffer overflow
// (spec.md §4.G).
func CalcSizeDataValue(dv *DataValue) int {
	n := 1 // encoding mask byte

	if dv.HasValue {
		n += calcSizeVariant(&dv.Value)
	}
	if dv.HasStatus {
		n += 4
	}
	if dv.HasSourceTimestamp {
		n += 8
	}
	if dv.HasSourcePicosecond {
		n += 2
	}
	if dv.HasServerTimestamp {
		n += 8
	}
	if dv.HasServerPicosecond {
		n += 2
	}
	return n
}

func calcSizeVariant(v *Variant) int {
	n := 1 + 4 // type tag + element count (0 for scalar)
	if v.IsArray() {
		for _, el := range v.Array {
			n += scalarSize(v.Type, el)
		}
		return n
	}
	return n + scalarSize(v.Type, v.Value)
}

// fixedScalarSize returns the encoded width of t for every type except the
// two variable-length string kinds, which return -1 and must be sized from
// the actual value via scalarSize.
func fixedScalarSize(t VariantType) int {
	switch t {
	case TypeBoolean, TypeSByte, TypeByte:
		return 1
	case TypeInt16, TypeUInt16:
		return 2
	case TypeInt32, TypeUInt32, TypeFloat:
		return 4
	case TypeInt64, TypeUInt64, TypeDouble:
		return 8
	default:
		return -1
	}
}

func scalarSize(t VariantType, val interface{}) int {
	if n := fixedScalarSize(t); n >= 0 {
		return n
	}
	switch t {
	case TypeString:
		s, _ := val.(string)
		return len(s)
	case TypeByteString:
		bs, _ := val.([]byte)
		return len(bs)
	default:
		return 0
	}
}

// EncodeDataValue encodes dv into buf, trying the caller's buffer first.
// On overflow it allocates exactly CalcSizeDataValue(dv) bytes and encodes
// into that instead. Returns the encoded slice (a sub-slice of buf when it
// fit) or an EncodingError if the value contains a type this encoder
// cannot size deterministically.
func EncodeDataValue(dv *DataValue, buf []byte) ([]byte, error) {
	n := CalcSizeDataValue(dv)
	if cap(buf) < n {
		if n <= 0 {
			return nil, NewErrEncoding("calcSize returned a non-positive size")
		}
		buf = make([]byte, n)
	} else {
		buf = buf[:n]
	}

	out := buf
	mask := byte(0)
	if dv.HasValue {
		mask |= 1 << 0
	}
	if dv.HasStatus {
		mask |= 1 << 1
	}
	if dv.HasSourceTimestamp {
		mask |= 1 << 2
	}
	if dv.HasSourcePicosecond {
		mask |= 1 << 3
	}
	if dv.HasServerTimestamp {
		mask |= 1 << 4
	}
	if dv.HasServerPicosecond {
		mask |= 1 << 5
	}
	out[0] = mask
	off := 1

	if dv.HasValue {
		m, err := encodeVariant(&dv.Value, out[off:])
		if err != nil {
			return nil, err
		}
		off += m
	}
	if dv.HasStatus {
		binary.BigEndian.PutUint32(out[off:], uint32(dv.Status))
		off += 4
	}
	if dv.HasSourceTimestamp {
		binary.BigEndian.PutUint64(out[off:], uint64(dv.SourceTimestamp.UnixNano()))
		off += 8
	}
	if dv.HasSourcePicosecond {
		binary.BigEndian.PutUint16(out[off:], dv.SourcePicoseconds)
		off += 2
	}
	if dv.HasServerTimestamp {
		binary.BigEndian.PutUint64(out[off:], uint64(dv.ServerTimestamp.UnixNano()))
		off += 8
	}
	if dv.HasServerPicosecond {
		binary.BigEndian.PutUint16(out[off:], dv.ServerPicoseconds)
		off += 2
	}
	return out[:off], nil
}

func encodeVariant(v *Variant, out []byte) (int, error) {
	out[0] = byte(v.Type)
	off := 1

	count := uint32(0)
	if v.IsArray() {
		count = uint32(len(v.Array))
	}
	binary.BigEndian.PutUint32(out[off:], count)
	off += 4

	if v.IsArray() {
		for _, el := range v.Array {
			m, err := encodeScalar(v.Type, el, out[off:])
			if err != nil {
				return 0, err
			}
			off += m
		}
		return off, nil
	}
	m, err := encodeScalar(v.Type, v.Value, out[off:])
	if err != nil {
		return 0, err
	}
	return off + m, nil
}

func encodeScalar(t VariantType, val interface{}, out []byte) (int, error) {
	switch t {
	case TypeBoolean:
		b, _ := val.(bool)
		if b {
			out[0] = 1
		} else {
			out[0] = 0
		}
		return 1, nil
	case TypeSByte:
		n, _ := val.(int8)
		out[0] = byte(n)
		return 1, nil
	case TypeByte:
		n, _ := val.(uint8)
		out[0] = n
		return 1, nil
	case TypeInt16:
		n, _ := val.(int16)
		binary.BigEndian.PutUint16(out, uint16(n))
		return 2, nil
	case TypeUInt16:
		n, _ := val.(uint16)
		binary.BigEndian.PutUint16(out, n)
		return 2, nil
	case TypeInt32:
		n, _ := val.(int32)
		binary.BigEndian.PutUint32(out, uint32(n))
		return 4, nil
	case TypeUInt32:
		n, _ := val.(uint32)
		binary.BigEndian.PutUint32(out, n)
		return 4, nil
	case TypeFloat:
		n, _ := val.(float32)
		binary.BigEndian.PutUint32(out, math.Float32bits(n))
		return 4, nil
	case TypeInt64:
		n, _ := val.(int64)
		binary.BigEndian.PutUint64(out, uint64(n))
		return 8, nil
	case TypeUInt64:
		n, _ := val.(uint64)
		binary.BigEndian.PutUint64(out, n)
		return 8, nil
	case TypeDouble:
		n, _ := val.(float64)
		binary.BigEndian.PutUint64(out, math.Float64bits(n))
		return 8, nil
	case TypeString:
		s, _ := val.(string)
		return copy(out, s), nil
	case TypeByteString:
		bs, _ := val.([]byte)
		return copy(out, bs), nil
	default:
		return 0, NewErrEncoding("unsupported variant type")
	}
}
