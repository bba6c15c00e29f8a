package jsonvalue

import (
	"encoding/json"
	"math"
	"math/big"
	"sort"
	"strings"
)

// Kind orders JSON value types for comparison. Values of different kinds
// are never equal and sort by kind.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindInvalid
)

// KindOf classifies a decoded JSON value. Native Go numbers are accepted
// alongside json.Number so values built in code compare with decoded ones.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return KindInvalid
	}
}

// Compare returns -1, 0 or 1. Objects compare independent of key order,
// numbers compare by value regardless of integer or float representation.
func Compare(a, b any) int {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return cmpInt(int(ka), int(kb))
	}

	switch ka {
	case KindNull:
		return 0
	case KindBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case KindNumber:
		return compareNumbers(a, b)
	case KindString:
		return strings.Compare(a.(string), b.(string))
	case KindArray:
		return compareArrays(a.([]any), b.([]any))
	case KindObject:
		return compareObjects(a.(map[string]any), b.(map[string]any))
	default:
		return 0
	}
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b any) bool {
	return Compare(a, b) == 0
}

// IsEmptyContainer reports whether v is an empty array or an empty object.
func IsEmptyContainer(v any) bool {
	switch x := v.(type) {
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}

func compareArrays(a, b []any) int {
	if c := cmpInt(len(a), len(b)); c != 0 {
		return c
	}
	for i := range a {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareObjects(a, b map[string]any) int {
	if c := cmpInt(len(a), len(b)); c != 0 {
		return c
	}

	ak := sortedKeys(a)
	bk := sortedKeys(b)
	for i := range ak {
		if c := strings.Compare(ak[i], bk[i]); c != 0 {
			return c
		}
	}
	for _, k := range ak {
		if c := Compare(a[k], b[k]); c != 0 {
			return c
		}
	}
	return 0
}

func compareNumbers(a, b any) int {
	x, okx := toRat(a)
	y, oky := toRat(b)
	if okx && oky {
		return x.Cmp(y)
	}
	// NaN and infinities are not valid JSON; fall back to float ordering
	fx, fy := toFloat(a), toFloat(b)
	switch {
	case fx < fy:
		return -1
	case fx > fy:
		return 1
	case math.IsNaN(fx) && !math.IsNaN(fy):
		return -1
	case !math.IsNaN(fx) && math.IsNaN(fy):
		return 1
	default:
		return 0
	}
}

func toRat(v any) (*big.Rat, bool) {
	r := new(big.Rat)
	switch n := v.(type) {
	case json.Number:
		return r.SetString(string(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return r.SetFloat64(n), true
	case float32:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return r.SetFloat64(f), true
	case int:
		return r.SetInt64(int64(n)), true
	case int8:
		return r.SetInt64(int64(n)), true
	case int16:
		return r.SetInt64(int64(n)), true
	case int32:
		return r.SetInt64(int64(n)), true
	case int64:
		return r.SetInt64(n), true
	case uint:
		return r.SetUint64(uint64(n)), true
	case uint8:
		return r.SetUint64(uint64(n)), true
	case uint16:
		return r.SetUint64(uint64(n)), true
	case uint32:
		return r.SetUint64(uint64(n)), true
	case uint64:
		return r.SetUint64(n), true
	}
	return nil, false
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case float64:
		return n
	case float32:
		return float64(n)
	}
	if r, ok := toRat(v); ok {
		f, _ := r.Float64()
		return f
	}
	return math.NaN()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
