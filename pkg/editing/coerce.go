package editing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/goliatone/go-formpage/pkg/model"
)

// Text converts a scalar editing value into the text that rules, widgets and
// form bodies operate on. nil becomes the empty string.
func Text(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", typed)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", typed)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case json.Number:
		return typed.String()
	case time.Time:
		return typed.Format(model.DateLayout)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

// Normalize folds numeric values into a stable representation: integral
// floats and json.Numbers become int64, other json.Numbers become float64.
// Non-numeric values pass through unchanged.
func Normalize(value any) any {
	switch typed := value.(type) {
	case float64:
		if isIntegral(typed) {
			return int64(typed)
		}
		return typed
	case float32:
		if isIntegral(float64(typed)) {
			return int64(typed)
		}
		return float64(typed)
	case int:
		return int64(typed)
	case int32:
		return int64(typed)
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return n
		}
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	default:
		return value
	}
}

func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && math.Abs(f) < 1<<53
}
