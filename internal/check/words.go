// Package check turns a payment and the bank account it draws on into the
// data printed on a paper check: the legal amount line, the MICR line and the
// front/back instrument view. Everything here is pure and safe for concurrent use.
package check

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeAmount is returned for amounts below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrAmountTooLarge is returned for amounts that need a millions group.
	ErrAmountTooLarge = errors.New("amount exceeds 999,999.99")
	// ErrAmountOutOfRange is returned for amounts whose scale or precision is
	// nowhere near a check amount, such as 1e90000000.
	ErrAmountOutOfRange = errors.New("amount is out of range")
)

// MaxAmount is the largest amount the legal line can spell out.
var MaxAmount = decimal.RequireFromString("999999.99")

var hundred = decimal.NewFromInt(100)

// Exponent and coefficient bounds for Bounded. Comparing or rounding a
// decimal rescales it to a common exponent, which costs a power of ten as
// large as the exponent gap.
const (
	minExponent       = -20
	maxExponent       = 6
	maxCoefficientLen = 128 // bits
)

// Bounded reports whether amount is small enough in scale and precision to
// compare, round or format cheaply. Amounts decoded from untrusted input
// must pass Bounded before any other decimal arithmetic.
func Bounded(amount decimal.Decimal) bool {
	exp := amount.Exponent()
	return exp >= minExponent && exp <= maxExponent &&
		amount.Coefficient().BitLen() <= maxCoefficientLen
}

var (
	onesWords = [...]string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teenWords = [...]string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tensWords = [...]string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// AmountToWords renders amount as the legal amount line of a check, e.g.
// "*** One Thousand Two Hundred Fifty and 00/100 Dollars ***".
// Fractions beyond cents are rounded half-up before splitting.
func AmountToWords(amount decimal.Decimal) (string, error) {
	if !Bounded(amount) {
		return "", ErrAmountOutOfRange
	}
	if amount.IsNegative() {
		return "", ErrNegativeAmount
	}

	amount = amount.Round(2)
	if amount.GreaterThan(MaxAmount) {
		return "", ErrAmountTooLarge
	}

	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Mul(hundred).IntPart()

	return fmt.Sprintf("*** %s and %02d/100 Dollars ***", dollarWords(whole), cents), nil
}

func dollarWords(n int64) string {
	if n == 0 {
		return "Zero"
	}

	var words []string
	if thousands := n / 1000; thousands > 0 {
		words = append(words, groupWords(thousands)...)
		words = append(words, "Thousand")
	}
	words = append(words, groupWords(n%1000)...)

	return strings.Join(words, " ")
}

// groupWords spells out 0..999; zero yields no words.
func groupWords(n int64) []string {
	var words []string
	if h := n / 100; h > 0 {
		words = append(words, onesWords[h], "Hundred")
	}

	switch r := n % 100; {
	case r >= 20:
		words = append(words, tensWords[r/10])
		if r%10 > 0 {
			words = append(words, onesWords[r%10])
		}
	case r >= 10:
		words = append(words, teenWords[r-10])
	case r > 0:
		words = append(words, onesWords[r])
	}
	return words
}

// FormatAmount renders amount with thousands separators and two decimals,
// e.g. "1,250.00", for the numeric amount box. amount must be Bounded.
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, frac := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
