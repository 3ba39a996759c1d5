package core

import "strings"

// Brazilian document helpers (CPF & phone numbers).
//
// Masking is progressive: partial input (while the user is still typing)
// yields a partial mask and never errors. Digits beyond the document length
// are truncated.

// DigitsOnly strips all non-digit characters from `s`.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskCPF formats up to 11 digits as XXX.XXX.XXX-XX.
func MaskCPF(s string) string {
	d := DigitsOnly(s)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "." + d[3:]
	case len(d) <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// ValidateCPF reports whether `s` holds a valid CPF: exactly 11 digits, not
// all identical, and both check digits matching the weighted mod-11 scheme.
func ValidateCPF(s string) bool {
	d := DigitsOnly(s)
	if len(d) != 11 {
		return false
	}
	if strings.Count(d, d[:1]) == 11 {
		return false
	}
	return cpfCheckDigit(d, 9) == int(d[9]-'0') && cpfCheckDigit(d, 10) == int(d[10]-'0')
}

// cpfCheckDigit computes the check digit over the first `n` digits of `d`,
// with weights descending from n+1 to 2. A remainder under 2 maps to 0.
func cpfCheckDigit(d string, n int) int {
	var sum int
	for i := 0; i < n; i++ {
		sum += int(d[i]-'0') * (n + 1 - i)
	}
	if r := sum % 11; r >= 2 {
		return 11 - r
	}
	return 0
}

// MaskPhone formats up to 11 digits as (XX) XXXXX-XXXX (mobile) or
// (XX) XXXX-XXXX (landline), depending on how many digits are present.
func MaskPhone(s string) string {
	d := DigitsOnly(s)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "(" + d
	case len(d) <= 6:
		return "(" + d[:2] + ") " + d[2:]
	case len(d) <= 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// ValidatePhone reports whether `s` holds 10 (landline) or 11 (mobile) digits.
func ValidatePhone(s string) bool {
	n := len(DigitsOnly(s))
	return n == 10 || n == 11
}
