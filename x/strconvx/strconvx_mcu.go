//go:build rp2040

package strconvx

// Allocation-light integer conversions with strconv signatures and error
// classes (syntax vs range). Bases 2..36; base 0 detects 0x, 0b, 0o and a
// bare leading 0 (octal). Underscore separators are not accepted.

type numError struct{ rangeErr bool }

func (e numError) Error() string {
	if e.rangeErr {
		return "value out of range"
	}
	return "invalid syntax"
}

var (
	errSyntax = numError{}
	errRange  = numError{rangeErr: true}
)

func FormatInt(i int64, base int) string {
	if i < 0 {
		return "-" + FormatUint(uint64(-i), base)
	}
	return FormatUint(uint64(i), base)
}

func FormatUint(u uint64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	if u == 0 {
		return "0"
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for u > 0 {
		i--
		buf[i] = digits[u%b]
		u /= b
	}
	return string(buf[i:])
}

func ParseUint(s string, base, bitSize int) (uint64, error) {
	if base == 0 {
		base = detectBase(&s)
	}
	if base < 2 || base > 36 || len(s) == 0 {
		return 0, errSyntax
	}
	if bitSize == 0 {
		bitSize = 32
	}
	max := uint64(1)<<uint(bitSize) - 1
	if bitSize >= 64 {
		max = ^uint64(0)
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d byte
		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'z':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'Z':
			d = c - 'A' + 10
		default:
			return 0, errSyntax
		}
		if int(d) >= base {
			return 0, errSyntax
		}
		if v > (max-uint64(d))/uint64(base) {
			return max, errRange
		}
		v = v*uint64(base) + uint64(d)
	}
	return v, nil
}

func ParseInt(s string, base, bitSize int) (int64, error) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if bitSize == 0 {
		bitSize = 32
	}
	u, err := ParseUint(s, base, 64)
	if err != nil {
		return 0, err
	}
	lim := uint64(1) << uint(bitSize-1)
	if neg {
		if u > lim {
			return -int64(lim), errRange
		}
		return -int64(u), nil
	}
	if u >= lim {
		return int64(lim - 1), errRange
	}
	return int64(u), nil
}

func detectBase(ps *string) int {
	s := *ps
	if len(s) < 2 || s[0] != '0' {
		return 10
	}
	switch s[1] {
	case 'x', 'X':
		*ps = s[2:]
		return 16
	case 'b', 'B':
		*ps = s[2:]
		return 2
	case 'o', 'O':
		*ps = s[2:]
		return 8
	}
	*ps = s[1:]
	return 8
}
