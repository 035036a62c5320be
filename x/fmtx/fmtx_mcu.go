//go:build rp2040

package fmtx

import (
	"io"

	"audiocodec-go/x/strconvx"
)

// DefaultOutput is used by Print/Printf on MCU builds.
// Set this from your platform bootstrap (e.g. a UART writer).
var DefaultOutput io.Writer = discard{}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// --- Public API (signatures match fmt) ---

func Sprintf(format string, a ...any) string {
	var b builder
	b.format(format, a...)
	return string(b.buf)
}

func Printf(format string, a ...any) (int, error) { return Fprint(DefaultOutput, Sprintf(format, a...)) }

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return w.Write([]byte(Sprintf(format, a...)))
}

func Errorf(format string, a ...any) error { return &stringError{Sprintf(format, a...)} }

func Sprint(a ...any) string {
	var b builder
	for i, v := range a {
		// fmt.Sprint only spaces operands when neither is a string.
		if i > 0 && !isString(a[i-1]) && !isString(v) {
			b.byte(' ')
		}
		b.any(v)
	}
	return string(b.buf)
}

func Fprint(w io.Writer, a ...any) (int, error) { return w.Write([]byte(Sprint(a...))) }

func Print(a ...any) (int, error) { return Fprint(DefaultOutput, a...) }

// --- Internals ---
// Supports %s %q %d %x %X %v %t %% with width, '0' padding for integers and
// precision for strings. Integer slices print as [a b c] like fmt. Floats are
// not supported.

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

type builder struct{ buf []byte }

func (b *builder) byte(c byte)  { b.buf = append(b.buf, c) }
func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

func (b *builder) pad(s string, width int, zero bool) {
	c := byte(' ')
	if zero {
		c = '0'
	}
	neg := zero && len(s) > 0 && s[0] == '-'
	if neg {
		b.byte('-')
		s = s[1:]
		width--
	}
	for n := width - len(s); n > 0; n-- {
		b.byte(c)
	}
	b.str(s)
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func (b *builder) any(v any) {
	if s, ok := intString(v, 10); ok {
		b.str(s)
		return
	}
	switch x := v.(type) {
	case string:
		b.str(x)
	case []byte:
		b.slice(len(x), func(i int) any { return x[i] })
	case []uint16:
		b.slice(len(x), func(i int) any { return x[i] })
	case []uint32:
		b.slice(len(x), func(i int) any { return x[i] })
	case []int:
		b.slice(len(x), func(i int) any { return x[i] })
	case []string:
		b.slice(len(x), func(i int) any { return x[i] })
	case bool:
		if x {
			b.str("true")
		} else {
			b.str("false")
		}
	case error:
		b.str(x.Error())
	case nil:
		b.str("<nil>")
	default:
		b.str("<?>")
	}
}

func (b *builder) slice(n int, at func(int) any) {
	b.byte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.byte(' ')
		}
		b.any(at(i))
	}
	b.byte(']')
}

// intString formats any integer kind in base.
func intString(v any, base int) (string, bool) {
	switch x := v.(type) {
	case int:
		return strconvx.FormatInt(int64(x), base), true
	case int8:
		return strconvx.FormatInt(int64(x), base), true
	case int16:
		return strconvx.FormatInt(int64(x), base), true
	case int32:
		return strconvx.FormatInt(int64(x), base), true
	case int64:
		return strconvx.FormatInt(x, base), true
	case uint:
		return strconvx.FormatUint(uint64(x), base), true
	case uint8:
		return strconvx.FormatUint(uint64(x), base), true
	case uint16:
		return strconvx.FormatUint(uint64(x), base), true
	case uint32:
		return strconvx.FormatUint(uint64(x), base), true
	case uint64:
		return strconvx.FormatUint(x, base), true
	case uintptr:
		return strconvx.FormatUint(uint64(x), base), true
	}
	return "", false
}

func (b *builder) format(format string, args ...any) {
	ai := 0
	for i := 0; i < len(format); {
		if format[i] != '%' {
			b.byte(format[i])
			i++
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b.byte('%')
			i += 2
			continue
		}
		i++
		zero := i < len(format) && format[i] == '0'
		if zero {
			i++
		}
		width, prec, hasPrec := 0, 0, false
		i = parseNum(format, i, &width)
		if i < len(format) && format[i] == '.' {
			i++
			hasPrec = true
			i = parseNum(format, i, &prec)
		}
		if i >= len(format) {
			return
		}
		verb := format[i]
		i++
		if ai >= len(args) {
			b.str("%!")
			b.byte(verb)
			b.str("(MISSING)")
			continue
		}
		arg := args[ai]
		ai++

		switch verb {
		case 's', 'q', 'v':
			var s string
			if x, ok := arg.(string); ok {
				s = x
				if verb == 'q' {
					s = quote(s)
				}
				if hasPrec && prec < len(s) {
					s = s[:prec]
				}
			} else {
				var sub builder
				sub.any(arg)
				s = string(sub.buf)
			}
			b.pad(s, width, false)
		case 'd':
			s, ok := intString(arg, 10)
			if !ok {
				s = "%!d"
			}
			b.pad(s, width, zero)
		case 'x', 'X':
			s, ok := intString(arg, 16)
			if !ok {
				s = "%!x"
			}
			if verb == 'X' {
				s = upper(s)
			}
			b.pad(s, width, zero)
		case 't':
			if v, ok := arg.(bool); ok && v {
				b.str("true")
			} else {
				b.str("false")
			}
		default:
			// Unknown verb: write it literally to aid debugging.
			b.byte('%')
			b.byte(verb)
		}
	}
}

func upper(s string) string {
	p := []byte(s)
	for i, c := range p {
		if 'a' <= c && c <= 'f' {
			p[i] = c - ('a' - 'A')
		}
	}
	return string(p)
}

func parseNum(s string, i int, out *int) int {
	n := 0
	start := i
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i > start {
		*out = n
	}
	return i
}

// quote is a minimal %q: escapes backslash, quotes and common control bytes.
func quote(s string) string {
	out := []byte{'"'}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			out = append(out, '\\', s[i])
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			out = append(out, s[i])
		}
	}
	return string(append(out, '"'))
}
