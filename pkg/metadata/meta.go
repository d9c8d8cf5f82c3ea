// Package metadata locates and decodes the metadata section of a MaxMind DB
// image.
package metadata

import (
	"time"

	"go-mmdb/util/helpers"
)

// SeparatorSize is the number of zero bytes between the search tree and
// the data section.
const SeparatorSize = 16

// Marker precedes the metadata map at the end of the image.
var Marker = []byte("\xAB\xCD\xEFMaxMind.com")

// Metadata describes a loaded database. The derived sizes are computed once
// in newMetadata and cannot be set independently.
type Metadata struct {
	BinaryFormatMajorVersion uint
	BinaryFormatMinorVersion uint
	BuildEpoch               uint64
	DatabaseType             string
	Description              map[string]string
	IPVersion                uint
	Languages                []string
	NodeCount                uint
	RecordSize               uint

	// offset of the first byte after the marker
	start uint

	nodeByteSize   uint
	searchTreeSize uint
	treeDepth      int
}

func newMetadata(m Metadata) *Metadata {
	m.nodeByteSize = m.RecordSize * 2 / 8
	m.searchTreeSize = m.NodeCount * m.nodeByteSize
	m.treeDepth = helpers.CeilLog2(m.NodeCount)
	return &m
}

// NodeByteSize is the size of one tree node: two records.
func (m *Metadata) NodeByteSize() uint { return m.nodeByteSize }

// SearchTreeSize is the size of the search tree in bytes.
func (m *Metadata) SearchTreeSize() uint { return m.searchTreeSize }

// TreeDepth approximates the depth of the tree as ceil(log2(NodeCount)).
func (m *Metadata) TreeDepth() int { return m.treeDepth }

// DataSectionStart is the image offset of the first data section byte.
func (m *Metadata) DataSectionStart() uint { return m.searchTreeSize + SeparatorSize }

// DataSectionSize is the number of bytes between the separator and the
// metadata marker.
func (m *Metadata) DataSectionSize() uint {
	return m.start - uint(len(Marker)) - m.DataSectionStart()
}

// Start is the image offset right after the metadata marker.
func (m *Metadata) Start() uint { return m.start }

func (m *Metadata) BuildTime() time.Time {
	return time.Unix(int64(m.BuildEpoch), 0)
}
