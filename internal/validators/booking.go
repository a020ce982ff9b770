package validators

import (
	"strings"
	"unicode"
)

func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPhone accepts DDD + number: 10 or 11 digits once formatting is removed.
func IsValidPhone(phone string) bool {
	n := len(DigitsOnly(phone))
	return n == 10 || n == 11
}

// NormalizePlate upper-cases the plate, drops anything but letters, digits
// and hyphens, and inserts the hyphen after the third character
// (ABC1234 -> ABC-1234, ABC1D23 -> ABC-1D23).
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(plate)) {
		if (r >= 'A' && r <= 'Z') || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		}
	}

	v := b.String()
	if len(v) > 3 && !strings.Contains(v, "-") {
		end := len(v)
		if end > 7 {
			end = 7
		}
		v = v[:3] + "-" + v[3:end]
	}
	return v
}
