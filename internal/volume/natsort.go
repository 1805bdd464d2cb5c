package volume

import "strings"

// naturalLess compares paths so that embedded numbers order numerically:
// sweep_2.nc sorts before sweep_10.nc. Non-digit runs compare
// case-insensitively, matching the collector's filename conventions.
func naturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		aTok, aNum, aRest := nextToken(a)
		bTok, bNum, bRest := nextToken(b)
		switch {
		case aNum && bNum:
			if c := compareDigits(aTok, bTok); c != 0 {
				return c < 0
			}
		case aNum != bNum:
			// Digits sort before letters, as in a plain byte comparison.
			return aNum
		default:
			al, bl := strings.ToLower(aTok), strings.ToLower(bTok)
			if al != bl {
				return al < bl
			}
		}
		a, b = aRest, bRest
	}
	return len(a) < len(b)
}

// nextToken splits off the leading all-digit or all-non-digit run.
func nextToken(s string) (tok string, isNum bool, rest string) {
	isNum = s[0] >= '0' && s[0] <= '9'
	i := 1
	for i < len(s) && (s[i] >= '0' && s[i] <= '9') == isNum {
		i++
	}
	return s[:i], isNum, s[i:]
}

// compareDigits compares two digit runs numerically without parsing, so
// arbitrarily long timestamps cannot overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
