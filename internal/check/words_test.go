package check

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"zero", "0", "*** Zero and 00/100 Dollars ***"},
		{"zero with cents notation", "0.00", "*** Zero and 00/100 Dollars ***"},
		{"cents only", "0.07", "*** Zero and 07/100 Dollars ***"},
		{"half dollar", "0.5", "*** Zero and 50/100 Dollars ***"},
		{"one", "1", "*** One and 00/100 Dollars ***"},
		{"teen", "14", "*** Fourteen and 00/100 Dollars ***"},
		{"ten", "10", "*** Ten and 00/100 Dollars ***"},
		{"nineteen", "19", "*** Nineteen and 00/100 Dollars ***"},
		{"round tens", "20", "*** Twenty and 00/100 Dollars ***"},
		{"tens and ones", "99", "*** Ninety Nine and 00/100 Dollars ***"},
		{"hundred", "100", "*** One Hundred and 00/100 Dollars ***"},
		{"hundred and one", "101", "*** One Hundred One and 00/100 Dollars ***"},
		{"hundred and teen", "115", "*** One Hundred Fifteen and 00/100 Dollars ***"},
		{"multiple of hundred", "300", "*** Three Hundred and 00/100 Dollars ***"},
		{"with cents", "450.50", "*** Four Hundred Fifty and 50/100 Dollars ***"},
		{"largest group", "999", "*** Nine Hundred Ninety Nine and 00/100 Dollars ***"},
		{"one thousand", "1000", "*** One Thousand and 00/100 Dollars ***"},
		{"thousand and one", "1001", "*** One Thousand One and 00/100 Dollars ***"},
		{"thousand and ten", "1010", "*** One Thousand Ten and 00/100 Dollars ***"},
		{"thousands and hundreds", "1250.00", "*** One Thousand Two Hundred Fifty and 00/100 Dollars ***"},
		{"teen thousands", "14000", "*** Fourteen Thousand and 00/100 Dollars ***"},
		{"mixed", "12345.67", "*** Twelve Thousand Three Hundred Forty Five and 67/100 Dollars ***"},
		{"hundreds of thousands", "300000", "*** Three Hundred Thousand and 00/100 Dollars ***"},
		{"maximum", "999999.99", "*** Nine Hundred Ninety Nine Thousand Nine Hundred Ninety Nine and 99/100 Dollars ***"},
		{"sub-cent rounds up", "1.005", "*** One and 01/100 Dollars ***"},
		{"sub-cent carries into dollars", "0.999", "*** One and 00/100 Dollars ***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmountToWords(decimal.RequireFromString(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountToWords_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		err    error
	}{
		{"negative", "-1", ErrNegativeAmount},
		{"negative cents", "-0.01", ErrNegativeAmount},
		{"one million", "1000000", ErrAmountTooLarge},
		{"rounds past maximum", "999999.995", ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmountToWords(decimal.RequireFromString(tt.amount))
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, got)
		})
	}
}

func TestAmountToWords_TeensNeverSplit(t *testing.T) {
	splitTeen := regexp.MustCompile(`\bTen (One|Two|Three|Four|Five|Six|Seven|Eight|Nine)\b`)

	for n := int64(0); n <= 999999; n++ {
		got, err := AmountToWords(decimal.NewFromInt(n))
		require.NoError(t, err)
		if splitTeen.MatchString(got) {
			t.Fatalf("%d rendered with a split teen: %q", n, got)
		}
	}
}

func TestAmountToWords_Fourteen(t *testing.T) {
	got, err := AmountToWords(decimal.NewFromInt(14))
	require.NoError(t, err)
	assert.Contains(t, got, "Fourteen")
	assert.NotContains(t, got, "Ten Four")
}

func TestAmountToWords_NoDoubleSpaces(t *testing.T) {
	for _, n := range []int64{100, 200, 300, 1000, 1100, 20000, 100000, 500500} {
		got, err := AmountToWords(decimal.NewFromInt(n))
		require.NoError(t, err)
		assert.NotContains(t, got, "  ", "amount %d", n)
		assert.NotContains(t, got, " and  ", "amount %d", n)
	}
}

func TestAmountToWords_Idempotent(t *testing.T) {
	amount := decimal.RequireFromString("7431.18")
	first, err := AmountToWords(amount)
	require.NoError(t, err)
	second, err := AmountToWords(amount)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBounded(t *testing.T) {
	for _, in := range []string{"0", "0.01", "999999.99", "1234.5678", "1e6", "-12.50"} {
		assert.True(t, Bounded(decimal.RequireFromString(in)), in)
	}
	for _, in := range []string{"1e90000000", "1e-90000000", "1e7", "1e-21", "340282366920938463463374607431768211457"} {
		assert.False(t, Bounded(decimal.RequireFromString(in)), in)
	}
}

func TestAmountToWords_HugeExponentRejectedQuickly(t *testing.T) {
	for _, in := range []string{"1e90000000", "1e-90000000"} {
		start := time.Now()
		_, err := AmountToWords(decimal.RequireFromString(in))
		assert.ErrorIs(t, err, ErrAmountOutOfRange, in)
		assert.Less(t, time.Since(start), time.Second, in)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "0.00"},
		{"12.5", "12.50"},
		{"100", "100.00"},
		{"999.99", "999.99"},
		{"1000", "1,000.00"},
		{"1250", "1,250.00"},
		{"999999.99", "999,999.99"},
		{"1234567.891", "1,234,567.89"},
		{"-1250", "-1,250.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.amount)))
		})
	}
}
