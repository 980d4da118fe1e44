package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CanonicalID converts an id of any representation a source may use into
// the string form used everywhere else. Numbers render in base 10, so 42,
// int64(42), 42.0 and "42" all become "42". Nil becomes "".
func CanonicalID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(id)
	case *string:
		if id == nil {
			return ""
		}
		return strings.TrimSpace(*id)
	case int:
		return strconv.Itoa(id)
	case int32:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	case uint:
		return strconv.FormatUint(uint64(id), 10)
	case uint32:
		return strconv.FormatUint(uint64(id), 10)
	case uint64:
		return strconv.FormatUint(id, 10)
	case float32:
		return formatFloatID(float64(id))
	case float64:
		return formatFloatID(id)
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		return strings.TrimSpace(id.String())
	case fmt.Stringer:
		return strings.TrimSpace(id.String())
	default:
		return strings.TrimSpace(fmt.Sprint(id))
	}
}

func formatFloatID(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
