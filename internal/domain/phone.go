package domain

import (
	"regexp"
	"strings"
)

const countryPrefix = "+256"

var (
	nonDigit        = regexp.MustCompile(`\D`)
	canonicalMSISDN = regexp.MustCompile(`^\+256[0-9]{9}$`)
)

// NormalizeMSISDN converts the phone formats customers actually type
// (07XXXXXXXX, 256XXXXXXXXX, bare 9 digits, or already-canonical +256...)
// into the canonical +256XXXXXXXXX form the payment provider expects.
func NormalizeMSISDN(raw string) (string, error) {
	formatted := raw
	if !strings.HasPrefix(formatted, countryPrefix) {
		digits := nonDigit.ReplaceAllString(formatted, "")
		switch {
		case strings.HasPrefix(digits, "0"):
			formatted = countryPrefix + digits[1:]
		case strings.HasPrefix(digits, "256"):
			formatted = "+" + digits
		default:
			formatted = countryPrefix + digits
		}
	}

	if !canonicalMSISDN.MatchString(formatted) {
		return "", ErrInvalidMSISDN
	}
	return formatted, nil
}
