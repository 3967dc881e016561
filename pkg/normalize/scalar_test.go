package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{name: "blank", input: "", expected: nil},
		{name: "whitespace only", input: "   ", expected: nil},
		{name: "fraction stays", input: "0.125", expected: ptr(0.125)},
		{name: "percent scale divided", input: "12.5", expected: ptr(0.125)},
		{name: "percent sign stripped", input: "12.5%", expected: ptr(0.125)},
		{name: "comma decimal", input: "12,5", expected: ptr(0.125)},
		{name: "one stays one", input: "1", expected: ptr(1.0)},
		{name: "hundred becomes one", input: "100", expected: ptr(1.0)},
		{name: "above hundred clamps", input: "150", expected: ptr(1.0)},
		{name: "negative clamps to zero", input: "-5", expected: ptr(0.0)},
		{name: "garbage", input: "n/a", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 1e-12)
		})
	}
}

func TestPercentageRoundTrip(t *testing.T) {
	// Any value already in [0, 1] must survive re-parsing unchanged.
	for _, v := range []string{"0", "0.25", "0.5", "0.99", "1"} {
		got := Percentage(v)
		require.NotNil(t, got)
		again := Percentage(v)
		require.NotNil(t, again)
		assert.Equal(t, *got, *again)
		assert.GreaterOrEqual(t, *got, 0.0)
		assert.LessOrEqual(t, *got, 1.0)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "blank", input: "", expected: "0", ok: false},
		{name: "plain integer", input: "1000", expected: "1000", ok: true},
		{name: "brazilian format", input: "1.234.567,89", expected: "1234567.89", ok: true},
		{name: "us format", input: "1,234,567.89", expected: "1234567.89", ok: true},
		{name: "currency prefix", input: "R$ 1.000,50", expected: "1000.50", ok: true},
		{name: "dollar prefix", input: "$2,500.00", expected: "2500.00", ok: true},
		{name: "single decimal digit", input: "10,5", expected: "10.5", ok: true},
		{name: "grouping only", input: "1.000", expected: "1000", ok: true},
		{name: "negative", input: "-42,10", expected: "-42.10", ok: true},
		{name: "garbage", input: "abc", expected: "0", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, got.Equal(mustDecimal(t, tt.expected)),
				"got %s, want %s", got.String(), tt.expected)
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string // ISO date or "" for nil
	}{
		{name: "blank", input: "", expected: ""},
		{name: "day first slash", input: "15/03/2020", expected: "2020-03-15"},
		{name: "iso", input: "2020-03-15", expected: "2020-03-15"},
		{name: "day first dash", input: "15-03-2020", expected: "2020-03-15"},
		{name: "iso with time", input: "2020-03-15 10:30:00", expected: "2020-03-15"},
		{name: "unambiguous resolves day first", input: "01/02/2020", expected: "2020-02-01"},
		{name: "garbage", input: "soon", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Date(tt.input)
			if tt.expected == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.Format("2006-01-02"))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestInt(t *testing.T) {
	assert.Nil(t, Int(""))
	assert.Nil(t, Int("abc"))
	assert.Nil(t, Int("2.5"))
	assert.Equal(t, 5, *Int("5"))
	assert.Equal(t, 5, *Int("5.0"))
	assert.Equal(t, -3, *Int("-3"))
}

func TestFloat(t *testing.T) {
	assert.Nil(t, Float(""))
	assert.Nil(t, Float("east"))
	assert.Equal(t, 512000.25, *Float("512000.25"))
	assert.Equal(t, 512000.25, *Float("512000,25"))
}

func TestAddYears(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		years    int
		expected string
	}{
		{name: "plain shift", start: "2020-03-15", years: 2, expected: "2022-03-15"},
		{name: "leap day to non-leap", start: "2020-02-29", years: 1, expected: "2021-02-28"},
		{name: "leap day to leap", start: "2020-02-29", years: 4, expected: "2024-02-29"},
		{name: "century non-leap", start: "2096-02-29", years: 4, expected: "2100-02-28"},
		{name: "zero years", start: "2020-03-15", years: 0, expected: "2020-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := time.Parse("2006-01-02", tt.start)
			require.NoError(t, err)
			got := AddYears(start, tt.years)
			assert.Equal(t, tt.expected, got.Format("2006-01-02"))
		})
	}
}

func ptr(v float64) *float64 { return &v }

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
