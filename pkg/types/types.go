// Package types holds the values produced by the data section decoder. Every
// value carries the MaxMind DB type code it was decoded from.
package types

import "fmt"

type TypeCode uint8

// Type codes as they appear in the control byte. Codes above 7 are stored as
// extended types.
const (
	TYPE_EXTENDED   TypeCode = iota
	TYPE_POINTER             // reference into the data section
	TYPE_STRING              // utf-8 string
	TYPE_DOUBLE              // 64 bit IEEE-754
	TYPE_BYTES               // raw bytes
	TYPE_UINT16
	TYPE_UINT32
	TYPE_MAP
	TYPE_INT32
	TYPE_UINT64
	TYPE_UINT128
	TYPE_ARRAY
	TYPE_CONTAINER  // search tree only
	TYPE_END_MARKER // search tree only
	TYPE_BOOLEAN
	TYPE_FLOAT // 32 bit IEEE-754
)

var typeNames = [...]string{
	TYPE_EXTENDED:   "extended",
	TYPE_POINTER:    "pointer",
	TYPE_STRING:     "utf8_string",
	TYPE_DOUBLE:     "double",
	TYPE_BYTES:      "bytes",
	TYPE_UINT16:     "uint16",
	TYPE_UINT32:     "uint32",
	TYPE_MAP:        "map",
	TYPE_INT32:      "int32",
	TYPE_UINT64:     "uint64",
	TYPE_UINT128:    "uint128",
	TYPE_ARRAY:      "array",
	TYPE_CONTAINER:  "container",
	TYPE_END_MARKER: "end_marker",
	TYPE_BOOLEAN:    "boolean",
	TYPE_FLOAT:      "float",
}

func (c TypeCode) String() string {
	if int(c) < len(typeNames) {
		return typeNames[c]
	}
	return fmt.Sprintf("type(%d)", uint8(c))
}

// DataType is a decoded value.
type DataType interface {
	GetCode() TypeCode

	// Value converts to plain Go values: string, []byte, float64, float32,
	// uint16, uint32, int32, uint64, *big.Int, bool, map[string]interface{}
	// and []interface{}.
	Value() interface{}
}

// Native returns v.Value() or nil for a nil v.
func Native(v DataType) interface{} {
	if v == nil {
		return nil
	}
	return v.Value()
}
