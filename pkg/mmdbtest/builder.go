package mmdbtest

import (
	"fmt"
	"net/netip"

	"go-mmdb/pkg/types"
	"go-mmdb/util/helpers"
)

// MetadataMarker starts the metadata section.
var MetadataMarker = []byte("\xAB\xCD\xEFMaxMind.com")

const separatorSize = 16

type entry struct {
	next *node
	data int // index into Builder.values, -1 for none
}

type node struct {
	children [2]entry
	index    uint
}

func newNode() *node {
	return &node{children: [2]entry{{data: -1}, {data: -1}}}
}

// Builder assembles a search tree, data section and metadata.
type Builder struct {
	IPVersion    int
	RecordSize   int
	DatabaseType string
	Languages    []string
	Description  map[string]string
	BuildEpoch   uint64

	// Metadata entries that override the generated ones. A nil value
	// removes the key.
	Metadata map[string]types.DataType

	// DedupStrings stores repeated strings of the data section once.
	DedupStrings bool

	root   *node
	values []types.DataType
}

func NewBuilder(ipVersion, recordSize int) *Builder {
	return &Builder{
		IPVersion:    ipVersion,
		RecordSize:   recordSize,
		DatabaseType: "Test-DB",
		Languages:    []string{"en"},
		Description:  map[string]string{"en": "test database"},
		BuildEpoch:   1700000000,
		root:         newNode(),
	}
}

// Insert attaches v to the network in CIDR notation. IPv4 networks inserted
// into an IPv6 tree land under ::/96. Later, more specific inserts split
// earlier networks.
func (b *Builder) Insert(cidr string, v types.DataType) error {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return err
	}
	prefix = prefix.Masked()

	addr := prefix.Addr().AsSlice()
	bits := prefix.Bits()
	if b.IPVersion == 6 && prefix.Addr().Is4() {
		addr = make([]byte, 16)
		copy(addr[12:], prefix.Addr().AsSlice())
		bits += 96
	} else if b.IPVersion == 4 && !prefix.Addr().Is4() {
		return fmt.Errorf("cannot insert %s into an IPv4 tree", cidr)
	}
	if bits == 0 {
		return fmt.Errorf("cannot insert zero length prefix %s", cidr)
	}

	b.values = append(b.values, v)
	idx := len(b.values) - 1

	n := b.root
	for i := 0; i < bits; i++ {
		bit := helpers.GetBit(addr, i)
		e := &n.children[bit]
		if i == bits-1 {
			*e = entry{data: idx}
			break
		}
		if e.next == nil {
			child := newNode()
			if e.data >= 0 {
				child.children[0].data = e.data
				child.children[1].data = e.data
			}
			*e = entry{next: child, data: -1}
		}
		n = e.next
	}
	return nil
}

// Build returns the complete image.
func (b *Builder) Build() ([]byte, error) {
	nodes := b.number()
	nodeCount := uint(len(nodes))

	data := NewEncoder()
	data.Dedup = b.DedupStrings
	offsets := make([]uint, len(b.values))
	for i, v := range b.values {
		offsets[i] = data.Encode(v)
	}

	record := func(e entry) uint {
		switch {
		case e.next != nil:
			return e.next.index
		case e.data >= 0:
			return nodeCount + separatorSize + offsets[e.data]
		default:
			return nodeCount
		}
	}

	tree := make([]byte, 0, int(nodeCount)*b.RecordSize/4)
	for _, n := range nodes {
		rec, err := EncodeNode(b.RecordSize, record(n.children[0]), record(n.children[1]))
		if err != nil {
			return nil, err
		}
		tree = append(tree, rec...)
	}

	return Image(tree, data.Bytes(), b.metadata(nodeCount)), nil
}

func (b *Builder) number() []*node {
	nodes := []*node{}
	queue := []*node{b.root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		n.index = uint(len(nodes))
		nodes = append(nodes, n)
		for _, e := range n.children {
			if e.next != nil {
				queue = append(queue, e.next)
			}
		}
	}
	return nodes
}

func (b *Builder) metadata(nodeCount uint) types.Map {
	langs := make(types.Array, len(b.Languages))
	for i, l := range b.Languages {
		langs[i] = types.String(l)
	}
	desc := types.Map{}
	for k, v := range b.Description {
		desc[k] = types.String(v)
	}

	m := types.Map{
		"binary_format_major_version": types.Uint16(2),
		"binary_format_minor_version": types.Uint16(0),
		"build_epoch":                 types.Uint64(b.BuildEpoch),
		"database_type":               types.String(b.DatabaseType),
		"description":                 desc,
		"ip_version":                  types.Uint16(b.IPVersion),
		"languages":                   langs,
		"node_count":                  types.Uint32(nodeCount),
		"record_size":                 types.Uint16(b.RecordSize),
	}
	for k, v := range b.Metadata {
		if v == nil {
			delete(m, k)
			continue
		}
		m[k] = v
	}
	return m
}

// EncodeNode packs the left and right records of one node.
func EncodeNode(recordSize int, left, right uint) ([]byte, error) {
	switch recordSize {
	case 24:
		return []byte{
			byte(left >> 16), byte(left >> 8), byte(left),
			byte(right >> 16), byte(right >> 8), byte(right),
		}, nil
	case 28:
		return []byte{
			byte(left >> 16), byte(left >> 8), byte(left),
			byte(left>>24&0x0f)<<4 | byte(right>>24&0x0f),
			byte(right >> 16), byte(right >> 8), byte(right),
		}, nil
	case 32:
		return []byte{
			byte(left >> 24), byte(left >> 16), byte(left >> 8), byte(left),
			byte(right >> 24), byte(right >> 16), byte(right >> 8), byte(right),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported record size %d", recordSize)
	}
}

// Image concatenates a search tree, the separator, a data section and the
// encoded metadata.
func Image(tree, data []byte, meta types.Map) []byte {
	img := make([]byte, 0, len(tree)+separatorSize+len(data)+256)
	img = append(img, tree...)
	img = append(img, make([]byte, separatorSize)...)
	img = append(img, data...)
	img = append(img, MetadataMarker...)

	enc := NewEncoder()
	enc.Encode(meta)
	return append(img, enc.Bytes()...)
}
