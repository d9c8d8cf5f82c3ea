package types

import "math/big"

// Uint128 is an unsigned 128 bit integer split into two words so values stay
// comparable with ==.
type Uint128 struct {
	Hi, Lo uint64
}

// Uint128FromBytes accumulates up to 16 big-endian bytes.
func Uint128FromBytes(b []byte) Uint128 {
	var u Uint128
	for _, c := range b {
		u.Hi = u.Hi<<8 | u.Lo>>56
		u.Lo = u.Lo<<8 | uint64(c)
	}
	return u
}

func (Uint128) GetCode() TypeCode { return TYPE_UINT128 }

func (t Uint128) Value() interface{} { return t.Big() }

// Big returns the value as a fresh *big.Int.
func (t Uint128) Big() *big.Int {
	hi := new(big.Int).SetUint64(t.Hi)
	hi.Lsh(hi, 64)
	return hi.Or(hi, new(big.Int).SetUint64(t.Lo))
}

func (t Uint128) String() string {
	return t.Big().String()
}
