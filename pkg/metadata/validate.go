package metadata

import (
	"go-mmdb/pkg/customerrors"
)

// Validate checks that the metadata describes a usable database of
// imageSize bytes.
func (m *Metadata) Validate(imageSize uint) error {
	switch {
	case m.DatabaseType == "":
		return customerrors.NewFormatError(m.start, "metadata is missing database_type")
	case m.BinaryFormatMajorVersion == 0:
		return customerrors.NewFormatError(m.start, "metadata is missing binary_format_major_version")
	case m.IPVersion == 0:
		return customerrors.NewFormatError(m.start, "metadata is missing ip_version")
	case m.IPVersion != 4 && m.IPVersion != 6:
		return customerrors.NewFormatError(m.start, "invalid ip_version %d", m.IPVersion)
	case m.NodeCount == 0:
		return customerrors.NewFormatError(m.start, "metadata is missing node_count")
	case m.RecordSize == 0:
		return customerrors.NewFormatError(m.start, "metadata is missing record_size")
	}

	if m.RecordSize != 24 && m.RecordSize != 28 && m.RecordSize != 32 {
		return &customerrors.UnsupportedRecordSizeError{Size: m.RecordSize}
	}

	if m.NodeCount > ^uint(0)/m.nodeByteSize {
		return customerrors.NewFormatError(m.start, "search tree size overflows")
	}
	markerStart := m.start - uint(len(Marker))
	if m.DataSectionStart() > markerStart || markerStart > imageSize {
		return customerrors.NewFormatError(m.start, "search tree of %d nodes does not fit in the image", m.NodeCount)
	}
	return nil
}
