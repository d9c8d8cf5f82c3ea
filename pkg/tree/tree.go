// Package tree walks the binary search tree of a MaxMind DB image.
package tree

import (
	"fmt"

	"go-mmdb/pkg/customerrors"
	"go-mmdb/pkg/metadata"
	"go-mmdb/util/helpers"
)

// IPv4 addresses of an IPv6 database live under ::/96.
const ipv4SubtreeDepth = 96

// Tree reads nodes lazily from the search tree part of an image.
type Tree struct {
	buf            []byte
	nodeCount      uint
	ipVersion      uint
	searchTreeSize uint
	read           readers

	ipv4Start      uint
	ipv4StartDepth int
}

// New builds a walker over image for validated metadata.
func New(image []byte, meta *metadata.Metadata) (*Tree, error) {
	read, err := newReaders(meta.RecordSize)
	if err != nil {
		return nil, err
	}
	if meta.SearchTreeSize() > uint(len(image)) {
		return nil, customerrors.NewFormatError(0, "search tree of %d bytes exceeds image", meta.SearchTreeSize())
	}

	t := &Tree{
		buf:            image[:meta.SearchTreeSize()],
		nodeCount:      meta.NodeCount,
		ipVersion:      meta.IPVersion,
		searchTreeSize: meta.SearchTreeSize(),
		read:           read,
	}
	if err := t.findIPv4Start(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) findIPv4Start() error {
	if t.ipVersion != 6 {
		return nil
	}

	node := uint(0)
	i := 0
	for ; i < ipv4SubtreeDepth && node < t.nodeCount; i++ {
		var err error
		if node, err = t.child(node, 0); err != nil {
			return err
		}
	}
	t.ipv4Start = node
	t.ipv4StartDepth = i
	return nil
}

func (t *Tree) child(node uint, bit uint) (uint, error) {
	offset := node * t.read.nodeSize
	if offset+t.read.nodeSize > uint(len(t.buf)) {
		return 0, customerrors.NewFormatError(offset, "node %d is outside the search tree", node)
	}
	if bit == 0 {
		return t.read.left(t.buf, offset), nil
	}
	return t.read.right(t.buf, offset), nil
}

// Walk follows addr (4 or 16 bytes) from the root, or from the IPv4 subtree
// for a 4 byte address in an IPv6 database. It returns the last record read
// and the number of address bits consumed. Only a record above the node
// count points at data.
func (t *Tree) Walk(addr []byte) (uint, int, error) {
	node := uint(0)
	switch len(addr) {
	case 4:
		if t.ipVersion == 6 {
			node = t.ipv4Start
		}
	case 16:
		if t.ipVersion == 4 {
			return 0, 0, &customerrors.InvalidAddressError{
				Addr:   fmt.Sprintf("%x", addr),
				Reason: "IPv6 address in an IPv4-only database",
			}
		}
	default:
		return 0, 0, &customerrors.InvalidAddressError{
			Addr:   fmt.Sprintf("%x", addr),
			Reason: fmt.Sprintf("address must be 4 or 16 bytes, got %d", len(addr)),
		}
	}

	bits := len(addr) * 8
	i := 0
	for ; i < bits && node < t.nodeCount; i++ {
		var err error
		if node, err = t.child(node, helpers.GetBit(addr, i)); err != nil {
			return 0, 0, err
		}
	}
	return node, i, nil
}

func (t *Tree) NodeCount() uint { return t.nodeCount }

// IsDataPointer reports whether record refers to the data section.
func (t *Tree) IsDataPointer(record uint) bool {
	return record > t.nodeCount
}

// DataOffset converts a data pointer record into an image offset.
func (t *Tree) DataOffset(record uint) (uint, error) {
	if record < t.nodeCount+metadata.SeparatorSize {
		return 0, customerrors.NewFormatError(record, "record %d points into the data section separator", record)
	}
	return record - t.nodeCount + t.searchTreeSize, nil
}
