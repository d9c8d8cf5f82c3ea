package types

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const fallbackLanguage = "en"

// Localize returns a copy of v in which every map holding a "names" map also
// holds a "name" entry: names[lang], else names["en"], else the entry with
// the lowest key. v itself is left untouched.
func Localize(v DataType, lang string) DataType {
	switch t := v.(type) {
	case Map:
		out := make(Map, len(t)+1)
		for k, c := range t {
			out[k] = Localize(c, lang)
		}
		if names, ok := t["names"].(Map); ok {
			if name := pickName(names, lang); name != nil {
				out["name"] = name
			}
		}
		return out
	case Array:
		out := make(Array, len(t))
		for i, c := range t {
			out[i] = Localize(c, lang)
		}
		return out
	default:
		return v
	}
}

func pickName(names Map, lang string) DataType {
	if v, ok := names[lang]; ok {
		return v
	}
	if v, ok := names[fallbackLanguage]; ok {
		return v
	}
	if len(names) == 0 {
		return nil
	}
	keys := maps.Keys(names)
	slices.Sort(keys)
	return names[keys[0]]
}
