package core

import (
	"audiocodec-go/errcode"
	"audiocodec-go/x/jsonx"
)

// As[T] converts a control payload to T. Values and non-nil pointers of T are
// accepted directly; maps and JSON bytes (from console or remote peers) are
// decoded. A nil payload is the zero value of T.
func As[T any](v any) (T, errcode.Code) {
	var zero T
	switch x := v.(type) {
	case nil:
		return zero, ""
	case T:
		return x, ""
	case *T:
		if x == nil {
			return zero, errcode.InvalidPayload
		}
		return *x, ""
	case map[string]any, []byte, string:
		var out T
		if err := jsonx.Decode(x, &out); err != nil {
			return zero, errcode.InvalidPayload
		}
		return out, ""
	}
	return zero, errcode.InvalidPayload
}
