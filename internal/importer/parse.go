package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	// YYYY-MM-DD or YYYY/MM/DD.
	yearFirstDate = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)
	// DD-MM-YYYY or DD/MM/YYYY.
	yearLastDate = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})\b`)
)

// Best-effort layouts tried after the two literal patterns.
var fallbackDateLayouts = []string{
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
	"02.01.2006",
	"2006.01.02",
	"20060102",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

var errInvalidDate = errors.New("not a calendar date")

// ParseDate parses a statement date. Year-first is tried before year-last;
// anything else goes through a list of common layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))

	if m := yearFirstDate.FindStringSubmatch(s); m != nil {
		return civilDate(m[1], m[2], m[3])
	}
	if m := yearLastDate.FindStringSubmatch(s); m != nil {
		return civilDate(m[3], m[2], m[1])
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: %w", s, errInvalidDate)
}

func civilDate(year, month, day string) (time.Time, error) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 31 -> Mar 2); reject those.
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, fmt.Errorf("parsing date %s-%s-%s: %w", year, month, day, errInvalidDate)
	}
	return t, nil
}

// Currency markers removed before amounts are parsed. ZAR precedes R so the
// longer token wins.
var amountStripper = strings.NewReplacer(
	`"`, "",
	"ZAR", "",
	"R", "",
	"$", "",
	"€", "",
	"£", "",
	",", "",
)

func cleanAmount(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, amountStripper.Replace(s))
}

// ParseAmount parses a statement amount, returning zero when it cannot.
func ParseAmount(s string) decimal.Decimal {
	d, err := parseAmountStrict(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseAmountStrict is ParseAmount with the failure kept. An empty field is
// a legitimate zero, not an error.
func parseAmountStrict(s string) (decimal.Decimal, error) {
	c := cleanAmount(s)
	if c == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(c)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
