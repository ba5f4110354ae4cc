// value.go: the Variant/DataValue value model sampled from nodes and
// compared by the change detector (spec.md §3, §4.E/F).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import "time"

// VariantType tags the Go type stored in a Variant's Value/Array fields.
type VariantType uint8

const (
	TypeBoolean VariantType = iota
	TypeSByte
	TypeByte
	TypeInt16
	TypeUInt16
	TypeInt32
	TypeUInt32
	TypeInt64
	TypeUInt64
	TypeFloat
	TypeDouble
	TypeString
	TypeByteString
	TypeOther
)

// IsNumeric reports whether the type is one of the numeric types the
// deadband filter operates on (spec.md §4.F).
func (t VariantType) IsNumeric() bool {
	switch t {
	case TypeBoolean, TypeSByte, TypeByte, TypeInt16, TypeUInt16,
		TypeInt32, TypeUInt32, TypeInt64, TypeUInt64, TypeFloat, TypeDouble:
		return true
	default:
		return false
	}
}

// Variant is a typed value, scalar or array. Array == nil means scalar.
type Variant struct {
	Type  VariantType
	Value interface{}   // scalar value
	Array []interface{} // array elements; nil for scalars
}

// IsArray reports whether this Variant holds an array.
func (v Variant) IsArray() bool { return v.Array != nil }

// Length returns 1 for a scalar, or the array length.
func (v Variant) Length() int {
	if v.IsArray() {
		return len(v.Array)
	}
	return 1
}

// elementAt returns the numeric value (as float64) of element i, or false
// if the element at i is not numeric.
func (v Variant) elementAt(i int) (float64, bool) {
	var raw interface{}
	if v.IsArray() {
		if i < 0 || i >= len(v.Array) {
			return 0, false
		}
		raw = v.Array[i]
	} else {
		if i != 0 {
			return 0, false
		}
		raw = v.Value
	}
	return numericValue(raw)
}

func numericValue(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case int8:
		return float64(n), true
	case uint8:
		return float64(n), true
	case int16:
		return float64(n), true
	case uint16:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// DataValue is a sampled value together with status and timestamps, the
// unit the change detector filters, encodes, and compares.
type DataValue struct {
	HasValue bool
	Value    Variant

	HasStatus bool
	Status    Status

	HasSourceTimestamp  bool
	SourceTimestamp     time.Time
	HasSourcePicosecond bool
	SourcePicoseconds   uint16

	HasServerTimestamp  bool
	ServerTimestamp     time.Time
	HasServerPicosecond bool
	ServerPicoseconds   uint16
}

// EURange is the {low, high} engineering-unit range used by the Percent
// deadband (spec.md §4.F).
type EURange struct {
	Low  float64
	High float64
}
