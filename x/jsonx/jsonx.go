// Package jsonx decodes loosely typed payloads (config maps, console input,
// raw JSON) into concrete structs.
package jsonx

import "encoding/json"

// Decode fills dst from a T or non-nil *T, JSON bytes, a JSON string, or any
// value that round-trips through encoding/json (typically map[string]any).
// A nil *T leaves dst untouched.
func Decode[T any](src any, dst *T) error {
	switch v := src.(type) {
	case T:
		*dst = v
		return nil
	case *T:
		if v != nil {
			*dst = *v
		}
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
