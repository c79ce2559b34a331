package utils

import (
	"strconv"
	"strings"
)

// NormalizeRUT strips dots and spaces and upper-cases the check digit: "12.345.678-k" -> "12345678-K".
func NormalizeRUT(rut string) string {
	r := strings.ToUpper(strings.TrimSpace(rut))
	r = strings.ReplaceAll(r, ".", "")
	r = strings.ReplaceAll(r, " ", "")
	if r != "" && !strings.Contains(r, "-") && len(r) > 1 {
		r = r[:len(r)-1] + "-" + r[len(r)-1:]
	}
	return r
}

// IsValidRUT checks the modulo-11 check digit of a Chilean RUT.
func IsValidRUT(rut string) bool {
	r := NormalizeRUT(rut)
	body, dv, ok := strings.Cut(r, "-")
	if !ok || len(body) == 0 || len(body) > 9 || len(dv) != 1 {
		return false
	}
	for _, ch := range body {
		if ch < '0' || ch > '9' {
			return false
		}
	}

	sum, factor := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	var want string
	switch rest := 11 - sum%11; rest {
	case 11:
		want = "0"
	case 10:
		want = "K"
	default:
		want = strconv.Itoa(rest)
	}
	return dv == want
}
