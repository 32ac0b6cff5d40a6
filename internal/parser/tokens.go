package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

func fold(tok string) string {
	return width.Narrow.String(tok)
}

// parseInt accepts tokens made only of decimal digits, full-width digits included.
func parseInt(tok string) (int, bool) {
	s := fold(tok)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseNumber is looser than parseInt: thousands separators, decimals and a trailing
// currency unit are accepted. Exponent forms are not.
func parseNumber(tok string) (decimal.Decimal, bool) {
	s := fold(tok)
	s = strings.TrimSuffix(s, "元")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range fold(s) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseBool(tok string) (bool, bool) {
	switch strings.ToLower(fold(tok)) {
	case "y", "yes", "1", "true", "是", "有":
		return true, true
	case "n", "no", "0", "false", "否", "無":
		return false, true
	}
	return false, false
}

var now = time.Now

// parseDate normalises a ship-date token to YYYY-MM-DD. "clear" or "-" yields "".
func parseDate(tok string) (string, bool) {
	s := fold(tok)
	switch strings.ToLower(s) {
	case "clear", "-", "清除":
		return "", true
	}
	for _, layout := range []string{"2006-01-02", "2006/01/02", "2006/1/2", "2006-1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	for _, layout := range []string{"01/02", "1/2", "01-02", "1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(now().Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			if d.Month() != t.Month() || d.Day() != t.Day() {
				return "", false
			}
			return d.Format("2006-01-02"), true
		}
	}
	return "", false
}

func join(tokens []string) string {
	return strings.Join(tokens, " ")
}
