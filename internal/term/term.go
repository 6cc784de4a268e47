// Package term turns raw remaining-term values into a canonical number of
// years and the display string shown to traders: whole or fractional years
// as "4.8年", anything under a year as a day count like "120日".
//
// Normalisation never fails. Values that are missing or cannot be parsed
// render as Unknown.
package term

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	YearUnit = "年"
	DayUnit  = "日"
	Unknown  = "未知"

	DaysPerYear   = 365
	MonthsPerYear = 12
)

var (
	one         = decimal.NewFromInt(1)
	daysPerYear = decimal.NewFromInt(DaysPerYear)
	monthsYear  = decimal.NewFromInt(MonthsPerYear)
)

// Term is a normalised remaining term.
type Term struct {
	Years   decimal.Decimal `json:"years"`
	Days    *int            `json:"days,omitempty"`
	Known   bool            `json:"known"`
	Display string          `json:"display"`
}

// unknown is the degraded result for absent or unparseable input.
func unknown() Term {
	return Term{Display: Unknown}
}

// Normalize accepts the shapes remaining terms arrive in: decimals, floats,
// integers, strings with unit suffixes, or nil.
func Normalize(raw any) Term {
	switch v := raw.(type) {
	case nil:
		return unknown()
	case decimal.Decimal:
		return FromYears(v)
	case *decimal.Decimal:
		if v == nil {
			return unknown()
		}
		return FromYears(*v)
	case decimal.NullDecimal:
		return FromNullYears(v)
	case float64:
		return FromYears(decimal.NewFromFloat(v))
	case float32:
		return FromYears(decimal.NewFromFloat32(v))
	case int:
		return FromYears(decimal.NewFromInt(int64(v)))
	case int64:
		return FromYears(decimal.NewFromInt(v))
	case string:
		return FromString(v)
	case *string:
		if v == nil {
			return unknown()
		}
		return FromString(*v)
	}
	return unknown()
}

// FromNullYears normalises an optional year count.
func FromNullYears(years decimal.NullDecimal) Term {
	if !years.Valid {
		return unknown()
	}
	return FromYears(years.Decimal)
}

// FromYears normalises a year count. Values under one year render in days,
// floor(years*365); negative values (matured bonds) clamp to "0日".
func FromYears(years decimal.Decimal) Term {
	if years.GreaterThanOrEqual(one) {
		return Term{
			Years:   years,
			Known:   true,
			Display: years.String() + YearUnit,
		}
	}

	days := int(years.Mul(daysPerYear).Floor().IntPart())
	if days < 0 {
		days = 0
	}
	return Term{
		Years:   years,
		Days:    &days,
		Known:   true,
		Display: formatDays(days),
	}
}

// FromString parses strings such as "4.8", "4.8年", "5Y", "6M", "120日",
// "120天" or "120 days". The unit is the text after the number; unrecognised
// suffixes are treated as noise and the value is read as years. Input holding
// more than one number, like "1年6个月", is Unknown.
func FromString(raw string) Term {
	n, suffix, ok := split(raw)
	if !ok {
		return unknown()
	}

	switch unitOf(suffix) {
	case unitDays:
		if n.IsNegative() {
			return unknown()
		}
		days := int(n.Floor().IntPart())
		return FromYears(n.DivRound(daysPerYear, 4)).WithDayOverride(&days)
	case unitMonths:
		return FromYears(n.DivRound(monthsYear, 4))
	}
	return FromYears(n)
}

// WithDayOverride replaces the computed day count with an upstream one. The
// upstream count is authoritative, but only applies to sub-year terms.
func (t Term) WithDayOverride(days *int) Term {
	if days == nil || !t.Known || t.Years.GreaterThanOrEqual(one) {
		return t
	}
	d := *days
	if d < 0 {
		d = 0
	}
	t.Days = &d
	t.Display = formatDays(d)
	return t
}

// Parse reads the single number in raw, ignoring unit characters around it
// and thousands separators. Digits, '.', '-' and '+' belong to the number, so
// compound values like "3+2Y" fail rather than parsing as 32, and a second
// number anywhere in raw fails too.
func Parse(raw string) (decimal.Decimal, bool) {
	n, _, ok := split(raw)
	return n, ok
}

// split separates the number in raw from the unit text that follows it. The
// suffix is trimmed and lower-cased.
func split(raw string) (decimal.Decimal, string, bool) {
	var num, suffix strings.Builder
	started, ended := false, false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case isNumberRune(r):
			if ended {
				return decimal.Zero, "", false
			}
			started = true
			num.WriteRune(r)
		case r == ',' && started && !ended:
		default:
			if started {
				ended = true
				suffix.WriteRune(r)
			}
		}
	}
	if num.Len() == 0 {
		return decimal.Zero, "", false
	}
	d, err := decimal.NewFromString(num.String())
	if err != nil {
		return decimal.Zero, "", false
	}
	return d, strings.ToLower(strings.TrimSpace(suffix.String())), true
}

func isNumberRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+'
}

type unit int

const (
	unitNone unit = iota
	unitDays
	unitMonths
)

func unitOf(suffix string) unit {
	switch suffix {
	case "日", "天", "d", "day", "days":
		return unitDays
	case "个月", "月", "m", "mo", "month", "months":
		return unitMonths
	}
	return unitNone
}

func formatDays(days int) string {
	return strconv.Itoa(days) + DayUnit
}
