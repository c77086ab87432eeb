// Package coerce converts loosely typed dimension values into the 32-bit
// integers a native context is created with.
package coerce

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ToInt32 truncates v toward zero and wraps it into the int32 range.
// NaN and infinities become 0.
func ToInt32(v float64) int32 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	const two32 = 1 << 32
	n := math.Mod(math.Trunc(v), two32)
	if n < 0 {
		n += two32
	}
	if n >= 1<<31 {
		n -= two32
	}
	return int32(n)
}

// Number converts v into a float64. Values that have no numeric reading
// yield NaN, which ToInt32 turns into 0.
func Number(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		return parse(x)
	case []byte:
		return parse(string(x))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return math.NaN()
}

func parse(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			n, err := strconv.ParseUint(s, 0, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// ParseFloat also accepts "inf", "nan" and underscores, none of
	// which are numbers here.
	if strings.ContainsAny(s, "_nNiI") {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}
