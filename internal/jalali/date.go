package jalali

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned by Parse for input that is not a Y/M/D triple.
var ErrMalformed = errors.New("jalali: malformed date")

// Date is a Jalali calendar day. Month and day ranges are not validated.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Parse reads "Y/M/D" with or without zero padding, in Western or localized
// digits. A dash is accepted as separator as well.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(ToWesternDigits(s))
	if s == "" {
		return Date{}, ErrMalformed
	}
	parts := strings.Split(strings.ReplaceAll(s, "-", "/"), "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q has %d segments", ErrMalformed, s, len(parts))
	}
	var nums [3]int
	for i, p := range parts {
		n, err := segment(p)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		nums[i] = n
	}
	return Date{Year: nums[0], Month: nums[1], Day: nums[2]}, nil
}

func segment(p string) (int, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return 0, ErrMalformed
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return 0, ErrMalformed
		}
	}
	return strconv.Atoi(p)
}

// Compare orders two dates by (year, month, day).
func (d Date) Compare(o Date) int {
	if c := cmp.Compare(d.Year, o.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Month, o.Month); c != 0 {
		return c
	}
	return cmp.Compare(d.Day, o.Day)
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats d as zero-padded YYYY/MM/DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Localized formats d with Persian digits.
func (d Date) Localized() string {
	return ToLocalizedDigits(d.String())
}

// Compare orders two date strings and returns -1, 0 or 1.
//
// A blank operand means "no bound" and yields 0, as does any operand that
// cannot be parsed. Range filters rely on this to leave malformed or missing
// dates unconstrained.
func Compare(a, b string) int {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	da, err := Parse(a)
	if err != nil {
		return 0
	}
	db, err := Parse(b)
	if err != nil {
		return 0
	}
	return da.Compare(db)
}
