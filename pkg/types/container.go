package types

type Map map[string]DataType

func (Map) GetCode() TypeCode { return TYPE_MAP }

func (t Map) Value() interface{} {
	m := make(map[string]interface{}, len(t))
	for k, v := range t {
		m[k] = Native(v)
	}
	return m
}

// Get follows keys through nested maps and returns nil when any step is
// missing or is not a map.
func (t Map) Get(path ...string) DataType {
	var cur DataType = t
	for _, key := range path {
		m, ok := cur.(Map)
		if !ok {
			return nil
		}
		if cur, ok = m[key]; !ok {
			return nil
		}
	}
	return cur
}

// GetString is Get for string leaves.
func (t Map) GetString(path ...string) (string, bool) {
	s, ok := t.Get(path...).(String)
	return string(s), ok
}

type Array []DataType

func (Array) GetCode() TypeCode { return TYPE_ARRAY }

func (t Array) Value() interface{} {
	a := make([]interface{}, len(t))
	for i, v := range t {
		a[i] = Native(v)
	}
	return a
}
