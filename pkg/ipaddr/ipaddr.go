// Package ipaddr turns textual IP addresses into the byte form walked by
// the search tree.
package ipaddr

import (
	"net/netip"
	"strings"

	"go-mmdb/pkg/customerrors"
)

type Version int

const (
	V4 Version = 4
	V6 Version = 6
)

// ParseIPToBytes returns 4 bytes for an IPv4 literal and 16 bytes for an
// IPv6 literal. IPv4-mapped IPv6 literals stay 16 bytes long. A zone
// suffix is dropped.
func ParseIPToBytes(ip string) ([]byte, Version, error) {
	s := strings.TrimSpace(ip)
	if s == "" {
		return nil, 0, &customerrors.InvalidAddressError{Addr: ip, Reason: "empty"}
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return nil, 0, &customerrors.InvalidAddressError{Addr: ip, Reason: err.Error()}
	}
	addr = addr.WithZone("")

	if addr.Is4() {
		b := addr.As4()
		return b[:], V4, nil
	}
	b := addr.As16()
	return b[:], V6, nil
}

func IsValid(ip string) bool {
	_, _, err := ParseIPToBytes(ip)
	return err == nil
}
