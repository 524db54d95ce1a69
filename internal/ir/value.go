package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Datum is a sealed interface representing a constant SQL value.
// Only DNull, DString, DInt, DBool, DArray, and DObject implement this.
// NO float datum - floats break canonical encoding and are rejected on input.
type Datum interface {
	datum() // Sealed - only these types implement it

	// Type returns the static type of the datum.
	Type() Type
}

// DNull is the SQL NULL constant.
// Using an explicit type ensures NULL satisfies the sealed interface.
type DNull struct{}

func (DNull) datum()     {}
func (DNull) Type() Type { return TypeNull }

// MarshalJSON implements json.Marshaler for DNull.
func (DNull) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// DString is a string constant.
type DString string

func (DString) datum()     {}
func (DString) Type() Type { return TypeString }

// DInt is an integer constant. Always int64.
type DInt int64

func (DInt) datum()     {}
func (DInt) Type() Type { return TypeInteger }

// DBool is a boolean constant.
type DBool bool

func (DBool) datum()     {}
func (DBool) Type() Type { return TypeBoolean }

// DArray is an ordered list of datums.
type DArray []Datum

func (DArray) datum()     {}
func (DArray) Type() Type { return TypeArray }

// DObject maps string keys to datums. It is mostly used to carry the
// canonical form of expressions. Use SortedKeys() for deterministic iteration.
type DObject map[string]Datum

func (DObject) datum()     {}
func (DObject) Type() Type { return TypeObject }

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 byte order, which differs above the BMP.
func (obj DObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

// compareKeysUTF16 compares strings by UTF-16 code units.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// Equal reports whether two datums are structurally identical.
// DNull equals DNull here: this is structural identity, not SQL comparison.
func Equal(a, b Datum) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case DNull:
		_, ok := b.(DNull)
		return ok
	case DString:
		bv, ok := b.(DString)
		return ok && av == bv
	case DInt:
		bv, ok := b.(DInt)
		return ok && av == bv
	case DBool:
		bv, ok := b.(DBool)
		return ok && av == bv
	case DArray:
		bv, ok := b.(DArray)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case DObject:
		bv, ok := b.(DObject)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, exists := bv[k]
			if !exists || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Format renders a datum as a SQL literal.
// Strings are single-quoted with embedded quotes doubled.
func Format(d Datum) string {
	switch v := d.(type) {
	case nil, DNull:
		return "NULL"
	case DString:
		return "'" + strings.ReplaceAll(string(v), "'", "''") + "'"
	case DInt:
		return fmt.Sprintf("%d", int64(v))
	case DBool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case DArray:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = Format(elem)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case DObject:
		keys := v.SortedKeys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + Format(v[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", d)
	}
}

// FromGo converts a decoded Go value (from YAML, JSON, or CUE) to a Datum.
// Floats are rejected; nil becomes DNull.
func FromGo(v any) (Datum, error) {
	switch val := v.(type) {
	case nil:
		return DNull{}, nil
	case Datum:
		return val, nil
	case bool:
		return DBool(val), nil
	case string:
		return DString(val), nil
	case int:
		return DInt(val), nil
	case int64:
		return DInt(val), nil
	case int32:
		return DInt(val), nil
	case uint64:
		if val > 1<<63-1 {
			return nil, fmt.Errorf("integer out of int64 range: %d", val)
		}
		return DInt(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("float constants are not supported: %s", s)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return DInt(n), nil
	case float64, float32:
		return nil, fmt.Errorf("float constants are not supported: %v", val)
	case []any:
		arr := make(DArray, len(val))
		for i, elem := range val {
			d, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = d
		}
		return arr, nil
	case map[string]any:
		obj := make(DObject, len(val))
		for k, elem := range val {
			d, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = d
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", v)
	}
}

// ToGo converts a datum to a plain Go value suitable for a SQL driver
// parameter. DNull becomes nil. Arrays and objects cannot be parameters.
func ToGo(d Datum) (any, error) {
	switch v := d.(type) {
	case nil, DNull:
		return nil, nil
	case DString:
		return string(v), nil
	case DInt:
		return int64(v), nil
	case DBool:
		return bool(v), nil
	case DArray:
		return nil, fmt.Errorf("array datum cannot be used as a SQL parameter")
	case DObject:
		return nil, fmt.Errorf("object datum cannot be used as a SQL parameter")
	default:
		return nil, fmt.Errorf("unsupported datum type: %T", d)
	}
}

// UnmarshalDatum decodes JSON into a Datum. Numbers are decoded with
// UseNumber so floats are detected and rejected.
func UnmarshalDatum(data []byte) (Datum, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return FromGo(raw)
}
