package types

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/reoring/ioschema"
	"github.com/reoring/ioschema/codec"
	"github.com/reoring/ioschema/decimal"
)

// stringifyScalar renders a validated leaf value. Undefined is omitted.
func stringifyScalar(v any) (string, bool, error) {
	switch x := v.(type) {
	case ioschema.UndefinedValue:
		return "", false, nil
	case nil:
		return "N", true, nil
	case bool:
		if x {
			return "T", true, nil
		}
		return "F", true, nil
	case string:
		return quote(x), true, nil
	case *big.Int:
		return x.String() + "n", true, nil
	case decimal.Decimal:
		return x.String() + "m", true, nil
	case time.Time:
		return codec.Notation(codec.Infer(x), x), true, nil
	case float64:
		return formatFloat(x), true, nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true, nil
	case int64:
		return strconv.FormatInt(x, 10), true, nil
	case uint64:
		return strconv.FormatUint(x, 10), true, nil
	}
	if f, ok := ioschema.ToFloat(v); ok {
		return formatFloat(f), true, nil
	}
	return "", false, fmt.Errorf("types: cannot stringify %T", v)
}

// quote renders a string literal with JSON escaping.
func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(b)
}

// memberKey renders an object key, quoting it unless it is a plain name.
func memberKey(k string) string {
	if k == "" {
		return quote(k)
	}
	for i, r := range k {
		isLetter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !(isDigit && i > 0) {
			return quote(k)
		}
	}
	return k
}

// inferNotation renders an untyped value by inspecting its Go shape.
func inferNotation(v any) (string, bool, error) {
	switch x := v.(type) {
	case *ioschema.Map:
		parts := make([]string, 0, x.Len())
		var err error
		x.Range(func(k string, val any) bool {
			var s string
			var ok bool
			s, ok, err = inferNotation(val)
			if err != nil {
				return false
			}
			if ok {
				parts = append(parts, memberKey(k)+": "+s)
			}
			return true
		})
		if err != nil {
			return "", false, err
		}
		return "{" + strings.Join(parts, ", ") + "}", true, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := ioschema.NewMap()
		for _, k := range keys {
			m.Set(k, x[k])
		}
		return inferNotation(m)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			s, _, err := inferNotation(e)
			if err != nil {
				return "", false, err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", true, nil
	}
	return stringifyScalar(v)
}

// joinPositional joins member texts, keeping empty slots for omitted inner
// members and dropping omitted trailing ones.
func joinPositional(parts []string, present []bool) string {
	end := len(parts)
	for end > 0 && !present[end-1] {
		end--
	}
	return strings.Join(parts[:end], ", ")
}
