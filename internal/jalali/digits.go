// Package jalali holds the Persian calendar date handling and numeral
// localization used by filtering and display.
package jalali

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	persianZero     = '۰'
	arabicIndicZero = '٠'
)

// ToLocalizedDigits renders v as text and replaces every Western digit with
// its Persian counterpart. Separators, signs and letters are left as they are.
func ToLocalizedDigits(v any) string {
	s := textOf(v)
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return persianZero + (r - '0')
		}
		return r
	}, s)
}

// ToWesternDigits folds Persian and Arabic-Indic digits back to 0-9.
func ToWesternDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= persianZero && r <= persianZero+9:
			return '0' + (r - persianZero)
		case r >= arabicIndicZero && r <= arabicIndicZero+9:
			return '0' + (r - arabicIndicZero)
		}
		return r
	}, s)
}

func textOf(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}
