package odata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KeyValue is one key property of an entity.
type KeyValue struct {
	Name  string
	Value any
}

// KeyPredicate builds the parenthesised key segment of an entity URI. A
// single key is written positionally, ('0100000000'); composite keys are
// written as name=value pairs in the given order.
func KeyPredicate(keys ...KeyValue) string {
	if len(keys) == 1 {
		return "(" + FormatLiteral(keys[0].Value) + ")"
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k.Name+"="+FormatLiteral(k.Value))
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// FormatLiteral writes v as an OData v2 URI literal. Strings are single
// quoted with embedded quotes doubled; nil pointers and invalid nullable
// values are null.
func FormatLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case *string:
		if x == nil {
			return "null"
		}
		return FormatLiteral(*x)
	case bool:
		return strconv.FormatBool(x)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10) + "L"
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32) + "f"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64) + "d"
	case Decimal:
		return x.String() + "M"
	case NullDecimal:
		if !x.Valid {
			return "null"
		}
		return x.Decimal.String() + "M"
	case DateTime:
		return formatDateTime(x.Time)
	case NullDateTime:
		if !x.Valid {
			return "null"
		}
		return formatDateTime(x.Time)
	case Duration:
		return "time'" + x.String() + "'"
	case uuid.UUID:
		return "guid'" + x.String() + "'"
	case NullGUID:
		if !x.Valid {
			return "null"
		}
		return "guid'" + x.UUID.String() + "'"
	default:
		return FormatLiteral(fmt.Sprint(v))
	}
}

func formatDateTime(t time.Time) string {
	return "datetime'" + t.UTC().Format("2006-01-02T15:04:05.9999999") + "'"
}
