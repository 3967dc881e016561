// Package normalize converts raw spreadsheet cell text into canonical typed
// values. Every function is total: malformed input degrades to a safe
// default (nil or zero) and is never an error.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Percentage parses a share value into the [0, 1] range. Values above 1 are
// interpreted as being on the 0–100 scale and divided by 100. Blank or
// unparseable input returns nil.
func Percentage(raw string) *float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}

	if v > 1 {
		v = v / 100.0
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}

// currencyTokens are stripped before amount parsing. The non-breaking space
// shows up in currency-formatted cells pasted from other tools.
var currencyTokens = []string{"R$", "US$", "$", "€", " ", " ", "\t"}

// Amount parses a monetary value into a fixed-precision decimal. Currency
// symbols and whitespace are stripped; the last '.' or ',' followed by one
// or two trailing digits is taken as the decimal point and every other
// separator as grouping. Blank or non-numeric input returns zero.
func Amount(raw string) decimal.Decimal {
	d, _ := ParseAmount(raw)
	return d
}

// ParseAmount is Amount with an ok flag, for callers that must distinguish
// a genuine zero from unparseable input (the validators).
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	if s == "" {
		return decimal.Zero, false
	}

	lastSep := strings.LastIndexAny(s, ".,")
	if lastSep >= 0 {
		trailing := len(s) - lastSep - 1
		if trailing >= 1 && trailing <= 2 {
			intPart := stripSeparators(s[:lastSep])
			s = intPart + "." + s[lastSep+1:]
		} else {
			s = stripSeparators(s)
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func stripSeparators(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, ",", "")
}

// dateLayouts are tried in order. Day-first forms come before the US form
// so that ambiguous dates resolve the way the source spreadsheets intend.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Date parses a calendar date from structured or free text. Returns nil on
// blank or unrecognized input; never returns an error.
func Date(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	return nil
}

// Int parses an integer, tolerating the float rendering spreadsheet cells
// produce for whole numbers ("5.0"). Returns nil on blank or bad input.
func Int(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || f != float64(int(f)) {
		return nil
	}
	v := int(f)
	return &v
}

// Float parses a plain numeric cell (coordinates, zones). Returns nil on
// blank or bad input.
func Float(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// AddYears shifts a date by whole years. A February 29 source date that
// lands on a non-leap year falls back to February 28.
func AddYears(t time.Time, years int) time.Time {
	y, m, d := t.Date()
	if m == time.February && d == 29 && !isLeapYear(y+years) {
		d = 28
	}
	return time.Date(y+years, m, d, 0, 0, 0, 0, t.Location())
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
