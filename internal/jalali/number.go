package jalali

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var groupingPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatNumber renders v with thousands grouping and up to three fraction
// digits, then localizes the digits: 1234.5 becomes "۱,۲۳۴.۵".
func FormatNumber(v float64) string {
	return ToLocalizedDigits(groupingPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(3))))
}

// FormatFixed renders v with exactly places fraction digits in localized
// digits, without grouping: 12.5 with 2 places becomes "۱۲.۵۰".
func FormatFixed(v float64, places int32) string {
	return ToLocalizedDigits(decimal.NewFromFloat(v).StringFixed(places))
}
