package tree

import (
	"net/netip"

	"go-mmdb/util/helpers"
	"go-mmdb/util/stl"
	"go-mmdb/util/stream"
)

// Network is a prefix whose record points into the data section. Err is
// set on the last item when iteration stopped on a corrupt tree.
type Network struct {
	Prefix netip.Prefix
	Record uint
	Err    error
}

type pending struct {
	node  uint
	depth int
	ip    [16]byte
}

// Networks streams every data carrying network in address order. In an
// IPv6 database networks under ::/96 are reported as IPv4 prefixes and
// other paths leading into the IPv4 subtree are skipped.
func (t *Tree) Networks() stream.Reader[Network] {
	s := stream.New[Network](64)
	go func() {
		defer s.Close()
		t.walkAll(s)
	}()
	return s
}

func (t *Tree) walkAll(s stream.Writer[Network]) {
	bits := 32
	if t.ipVersion == 6 {
		bits = 128
	}

	st := stl.NewStack[pending]()
	st.Push(pending{})
	for st.Len() > 0 {
		p, _ := st.Pop()

		if p.node >= t.nodeCount {
			if !t.IsDataPointer(p.node) {
				continue
			}
			if !s.Push(Network{Prefix: t.prefix(p.ip, p.depth, bits), Record: p.node}) {
				return
			}
			continue
		}
		if p.depth >= bits {
			continue
		}
		if t.isAlias(p) {
			continue
		}

		// right first so the left branch comes out first
		for _, bit := range []uint{1, 0} {
			child, err := t.child(p.node, bit)
			if err != nil {
				s.Push(Network{Err: err})
				return
			}
			next := pending{node: child, depth: p.depth + 1, ip: p.ip}
			if bit == 1 {
				setBit(&next.ip, p.depth, bits)
			}
			st.Push(next)
		}
	}
}

// isAlias reports whether p reaches the IPv4 subtree through a path other
// than ::/96.
func (t *Tree) isAlias(p pending) bool {
	if t.ipVersion != 6 || p.node != t.ipv4Start || t.ipv4StartDepth != ipv4SubtreeDepth {
		return false
	}
	if p.depth != ipv4SubtreeDepth {
		return true
	}
	for _, b := range p.ip[:12] {
		if b != 0 {
			return true
		}
	}
	return false
}

func setBit(ip *[16]byte, idx int, bits int) {
	if bits == 32 {
		idx += 96
	}
	ip[idx>>3] |= 0x80 >> uint(idx&7)
}

func (t *Tree) prefix(ip [16]byte, depth int, bits int) netip.Prefix {
	if bits == 32 {
		return netip.PrefixFrom(netip.AddrFrom4([4]byte(ip[12:])), depth)
	}
	if depth >= ipv4SubtreeDepth && isZero(ip[:12]) {
		return netip.PrefixFrom(netip.AddrFrom4([4]byte(ip[12:])), helpers.Min(depth-ipv4SubtreeDepth, 32))
	}
	return netip.PrefixFrom(netip.AddrFrom16(ip), depth)
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
