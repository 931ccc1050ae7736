// Package document validates Brazilian CPF and CNPJ numbers.
//
// A CPF has 11 digits and a CNPJ has 14; in both, the last two digits are
// check digits computed over the preceding ones with the modulo-11
// algorithm. Input may be masked (e.g. "529.982.247-25") or bare digits.
package document

import "strings"

const (
	cpfLength  = 11
	cnpjLength = 14
)

var (
	cpfFirstWeights  = []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfSecondWeights = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}

	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Normalize strips every non-digit character from s.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValid reports whether s is a valid CPF or CNPJ, masked or not.
// Any other length after normalization is invalid. Never panics.
func IsValid(s string) bool {
	digits := Normalize(s)
	switch len(digits) {
	case cpfLength:
		return validCPF(digits)
	case cnpjLength:
		return validCNPJ(digits)
	}
	return false
}

func validCPF(digits string) bool {
	// e.g. 111.111.111-11 satisfies the checksum but is invalid by convention
	if allSameDigit(digits) {
		return false
	}
	return checkDigitMatches(digits, cpfFirstWeights, 9) &&
		checkDigitMatches(digits, cpfSecondWeights, 10)
}

func validCNPJ(digits string) bool {
	if allSameDigit(digits) {
		return false
	}
	return checkDigitMatches(digits, cnpjFirstWeights, 12) &&
		checkDigitMatches(digits, cnpjSecondWeights, 13)
}

// checkDigitMatches computes the modulo-11 check digit over the weighted
// prefix of digits and compares it against the digit at position.
func checkDigitMatches(digits string, weights []int, position int) bool {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}

	remainder := sum % 11
	expected := 0
	if remainder >= 2 {
		expected = 11 - remainder
	}

	return expected == int(digits[position]-'0')
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
