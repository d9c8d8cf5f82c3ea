// Package customerrors defines the error taxonomy shared by the database
// reader, its decoder and its search tree.
package customerrors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDatabase is matched by every FormatError through errors.Is.
	ErrInvalidDatabase = errors.New("invalid MaxMind DB")

	// ErrNotLoaded is returned by lookups on a reader that has no database.
	ErrNotLoaded = errors.New("database not loaded")

	// ErrInvalidAddress is matched by every InvalidAddressError through errors.Is.
	ErrInvalidAddress = errors.New("invalid IP address")
)

// FormatError reports malformed image content: a missing metadata marker,
// invalid metadata, an unknown type tag or an out of bounds offset.
type FormatError struct {
	Offset uint
	Msg    string
}

func NewFormatError(offset uint, format string, args ...interface{}) *FormatError {
	return &FormatError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// NewOffsetError is the FormatError for reads past the end of the buffer.
func NewOffsetError(offset uint) *FormatError {
	return &FormatError{Offset: offset, Msg: "unexpected end of database"}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("mmdb: %s at offset %d", e.Msg, e.Offset)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidDatabase
}

// UnsupportedRecordSizeError is returned when the metadata declares a record
// size other than 24, 28 or 32 bits.
type UnsupportedRecordSizeError struct {
	Size uint
}

func (e *UnsupportedRecordSizeError) Error() string {
	return fmt.Sprintf("mmdb: unsupported record size %d", e.Size)
}

func (e *UnsupportedRecordSizeError) Is(target error) bool {
	return target == ErrInvalidDatabase
}

// InvalidAddressError is returned when a query is not a usable IPv4/IPv6
// literal.
type InvalidAddressError struct {
	Addr   string
	Reason string
}

func (e *InvalidAddressError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("mmdb: invalid IP address '%s'", e.Addr)
	}
	return fmt.Sprintf("mmdb: invalid IP address '%s': %s", e.Addr, e.Reason)
}

func (e *InvalidAddressError) Is(target error) bool {
	return target == ErrInvalidAddress
}
