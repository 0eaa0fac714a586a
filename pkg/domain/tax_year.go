package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// TaxYear keys every rate table lookup. UK years span 6 April to 5 April and
// are written "2024/25"; SA years span 1 March to end February and are written
// "2025" (the year of assessment ending in February of that year).
//
// Invariant: a UK tax year's second component is the first component plus one,
// modulo the century.
type TaxYear string

var ukTaxYearPattern = regexp.MustCompile(`^(\d{4})/(\d{2})$`)
var saTaxYearPattern = regexp.MustCompile(`^\d{4}$`)

// ParseTaxYear validates a tax year label for the given jurisdiction.
func ParseTaxYear(jurisdiction Jurisdiction, s string) (TaxYear, error) {
	switch jurisdiction {
	case JurisdictionUK:
		m := ukTaxYearPattern.FindStringSubmatch(s)
		if m == nil {
			return "", fmt.Errorf("invalid UK tax year %q: want YYYY/YY", s)
		}
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if (start+1)%100 != end {
			return "", fmt.Errorf("invalid UK tax year %q: end year must follow start year", s)
		}
	case JurisdictionSA:
		if !saTaxYearPattern.MatchString(s) {
			return "", fmt.Errorf("invalid SA tax year %q: want YYYY", s)
		}
	default:
		return "", fmt.Errorf("unknown jurisdiction %q", jurisdiction)
	}
	return TaxYear(s), nil
}

// String returns the string representation.
func (y TaxYear) String() string { return string(y) }

// IsNil reports whether the tax year is unset.
func (y TaxYear) IsNil() bool { return y == "" }
