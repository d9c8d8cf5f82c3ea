package types

type String string

func (String) GetCode() TypeCode    { return TYPE_STRING }
func (t String) Value() interface{} { return string(t) }

type Bytes []byte

func (Bytes) GetCode() TypeCode { return TYPE_BYTES }

func (t Bytes) Value() interface{} {
	cp := make([]byte, len(t))
	copy(cp, t)
	return cp
}

type Double float64

func (Double) GetCode() TypeCode    { return TYPE_DOUBLE }
func (t Double) Value() interface{} { return float64(t) }

type Float float32

func (Float) GetCode() TypeCode    { return TYPE_FLOAT }
func (t Float) Value() interface{} { return float32(t) }

type Uint16 uint16

func (Uint16) GetCode() TypeCode    { return TYPE_UINT16 }
func (t Uint16) Value() interface{} { return uint16(t) }

type Uint32 uint32

func (Uint32) GetCode() TypeCode    { return TYPE_UINT32 }
func (t Uint32) Value() interface{} { return uint32(t) }

type Int32 int32

func (Int32) GetCode() TypeCode    { return TYPE_INT32 }
func (t Int32) Value() interface{} { return int32(t) }

type Uint64 uint64

func (Uint64) GetCode() TypeCode    { return TYPE_UINT64 }
func (t Uint64) Value() interface{} { return uint64(t) }

type Bool bool

func (Bool) GetCode() TypeCode    { return TYPE_BOOLEAN }
func (t Bool) Value() interface{} { return bool(t) }
