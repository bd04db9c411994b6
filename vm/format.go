package vm

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders v the way PRINT_FLOAT writes it: the shortest decimal
// that round-trips, with ".0" on integral values, switching to exponent
// notation when the decimal exponent is below -4 or at least 16.
//
//	0 -> "0.0"   3.14159 -> "3.14159"   1e-99 -> "1e-99"   1234e99 -> "1.234e+102"
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	// 'e' with precision -1 gives the shortest digits: "-d.ddddde+XX".
	s := strconv.FormatFloat(v, 'e', -1, 64)
	sign := ""
	if s[0] == '-' {
		sign = "-"
		s = s[1:]
	}
	e := strings.IndexByte(s, 'e')
	exp, _ := strconv.Atoi(s[e+1:])
	digits := strings.Replace(s[:e], ".", "", 1)

	// decpt is the position of the decimal point relative to digits.
	decpt := exp + 1

	var sb strings.Builder
	sb.WriteString(sign)
	switch {
	case decpt > -4 && decpt <= 16:
		switch {
		case decpt <= 0:
			sb.WriteString("0.")
			sb.WriteString(strings.Repeat("0", -decpt))
			sb.WriteString(digits)
		case decpt >= len(digits):
			sb.WriteString(digits)
			sb.WriteString(strings.Repeat("0", decpt-len(digits)))
			sb.WriteString(".0")
		default:
			sb.WriteString(digits[:decpt])
			sb.WriteByte('.')
			sb.WriteString(digits[decpt:])
		}
	default:
		sb.WriteByte(digits[0])
		if len(digits) > 1 {
			sb.WriteByte('.')
			sb.WriteString(digits[1:])
		}
		sb.WriteByte('e')
		if exp < 0 {
			sb.WriteByte('-')
			exp = -exp
		} else {
			sb.WriteByte('+')
		}
		if exp < 10 {
			sb.WriteByte('0')
		}
		sb.WriteString(strconv.Itoa(exp))
	}
	return sb.String()
}

// FormatStack renders a stack snapshot as "[v1, v2, ...]", bottom first.
func FormatStack(values []float64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(FormatFloat(v))
	}
	sb.WriteByte(']')
	return sb.String()
}
