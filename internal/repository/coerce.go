package repository

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Stored documents predate any schema, so scalars arrive as whatever the
// writer happened to use. These helpers never fail: unreadable input
// becomes the zero value.

func coerceDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case float64:
		return decimal.NewFromFloat(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case json.Number:
		return parseDecimal(n.String())
	case string:
		return parseDecimal(n)
	case fmt.Stringer:
		// bson.Decimal128 and friends.
		return parseDecimal(n.String())
	default:
		return decimal.Zero
	}
}

func parseDecimal(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		ok, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && ok
	case nil:
		return false
	default:
		return !coerceDecimal(v).IsZero()
	}
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := strconv.Atoi(n.String())
		return i, err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

// asSlice returns the elements of any slice or array value. Decoders hand
// back []any for JSON and bson.A for Mongo; anything else is not a list.
func asSlice(v any) []any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func coerceBools(v any) []bool {
	items := asSlice(v)
	if len(items) == 0 {
		return nil
	}
	out := make([]bool, len(items))
	for i, item := range items {
		out[i] = coerceBool(item)
	}
	return out
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case interface{ Hex() string }:
		return s.Hex()
	case bool, int, int32, int64, float64:
		return fmt.Sprint(s)
	case fmt.Stringer:
		return s.String()
	default:
		return ""
	}
}

// coerceTime reads a timestamp. Absent values return nil and true; a value
// that is present but not a time reports false.
func coerceTime(v any) (*time.Time, bool) {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return nil, true
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return nil, true
		}
		t = *x
	case bson.DateTime:
		t = x.Time()
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, true
		}
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(x))
		if err != nil {
			return nil, false
		}
		t = parsed
	default:
		return nil, false
	}
	t = t.UTC()
	return &t, true
}

// isEmpty matches the ways older writers stored "nothing": null, a blank
// string, an empty object or an empty list.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	default:
		return false
	}
}

// plain rewrites decoder output into map[string]any and []any all the way
// down, so the readers only deal with JSON shapes.
func plain(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bson.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = plain(e.Value)
		}
		return out
	case []byte:
		return x
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = plain(iter.Value().Interface())
		}
		return out
	case reflect.Slice:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = plain(rv.Index(i).Interface())
		}
		return out
	default:
		return v
	}
}
