// Package bondref defines the bond reference lookup consumed by the matching
// engine and the adapters that implement it. Upstream payloads come in more
// than one shape (wind_code vs bond_code, issuebegin vs issue_date, "4.8年"
// vs 4.8, "3.25%" vs 3.25); every adapter funnels them through Normalize so
// callers only ever see the canonical BondReference.
package bondref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bondmatch/internal/term"
)

// Scales of the stored bond columns. Normalised values are rounded to them so
// that a value read back from storage compares equal to the one written.
const (
	RemainingTermScale = 4
	CouponRateScale    = 4
	TermYearsScale     = 2
)

var (
	// ErrNotFound means the provider answered but has no such bond.
	ErrNotFound = errors.New("bond reference not found")
	// ErrUnavailable means the provider could not answer (network, status, payload).
	ErrUnavailable = errors.New("bond reference lookup unavailable")
)

// Lookup resolves bond reference data by code or by abbreviation.
type Lookup interface {
	// Name returns the provider's display name.
	Name() string

	// LookupByCode returns the bond with exactly this code.
	LookupByCode(ctx context.Context, code string) (*BondReference, error)

	// LookupByAbbreviation returns the first bond whose name or issuer contains
	// text, ignoring case. It is not a ranked search.
	LookupByAbbreviation(ctx context.Context, text string) (*BondReference, error)
}

// Date is a calendar date that marshals as "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// MarshalJSON renders the date, or null for the zero value.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// BondReference is the canonical reference record for one bond.
type BondReference struct {
	BondCode      string              `json:"bond_code"`
	BondName      string              `json:"bond_name"`
	Issuer        string              `json:"issuer"`
	IssueDate     Date                `json:"issue_date"`
	MaturityDate  *Date               `json:"maturity_date,omitempty"`
	Term          string              `json:"term"`
	TermYears     decimal.NullDecimal `json:"term_years"`
	RemainingTerm decimal.NullDecimal `json:"remaining_term"`
	RemainingDays *int                `json:"remaining_days,omitempty"`
	CouponRate    decimal.NullDecimal `json:"coupon_rate"`
	CanBeRedeemed bool                `json:"can_be_redeemed"`
}

// Clone returns a copy of r that shares no pointers with it.
func (r BondReference) Clone() *BondReference {
	if r.MaturityDate != nil {
		d := *r.MaturityDate
		r.MaturityDate = &d
	}
	if r.RemainingDays != nil {
		n := *r.RemainingDays
		r.RemainingDays = &n
	}
	return &r
}

// RemainingTermDisplay normalises the remaining term, preferring the
// upstream day count when one was supplied.
func (r BondReference) RemainingTermDisplay() term.Term {
	return term.FromNullYears(r.RemainingTerm).WithDayOverride(r.RemainingDays)
}

// Record is an upstream payload in any of the shapes providers emit.
type Record struct {
	BondCode      string     `json:"bond_code"`
	WindCode      string     `json:"wind_code"`
	BondName      string     `json:"bond_name"`
	Issuer        string     `json:"issuer"`
	IssueDate     string     `json:"issue_date"`
	IssueBegin    string     `json:"issuebegin"`
	MaturityDate  string     `json:"maturity_date"`
	Term          FlexString `json:"term"`
	TermYears     FlexString `json:"term_years"`
	RemainingTerm FlexString `json:"remaining_term"`
	RemainingDays FlexString `json:"remaining_days"`
	CouponRate    FlexString `json:"coupon_rate"`
	CanBeRedeemed FlexString `json:"can_be_redeemed"`
}

// FlexString accepts a JSON string, number, boolean or null.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(raw)
	return nil
}

// Normalize converts a Record into a BondReference. Only the code and the
// issuer are mandatory; everything else degrades to absent.
func Normalize(rec Record) (*BondReference, error) {
	code := strings.TrimSpace(firstNonEmpty(rec.BondCode, rec.WindCode))
	if code == "" {
		return nil, fmt.Errorf("%w: record has no bond code", ErrUnavailable)
	}
	issuer := strings.TrimSpace(rec.Issuer)
	if issuer == "" {
		return nil, fmt.Errorf("%w: record %s has no issuer", ErrUnavailable, code)
	}

	ref := &BondReference{
		BondCode:      code,
		BondName:      strings.TrimSpace(rec.BondName),
		Issuer:        issuer,
		Term:          strings.TrimSpace(string(rec.Term)),
		CouponRate:    roundNull(parseNull(string(rec.CouponRate)), CouponRateScale),
		RemainingTerm: roundNull(parseYears(string(rec.RemainingTerm)), RemainingTermScale),
		CanBeRedeemed: parseBool(string(rec.CanBeRedeemed)),
	}

	if d, ok := parseDate(firstNonEmpty(rec.IssueDate, rec.IssueBegin)); ok {
		ref.IssueDate = Date{d}
	}
	if d, ok := parseDate(rec.MaturityDate); ok {
		ref.MaturityDate = &Date{d}
	}

	ref.TermYears = parseNull(string(rec.TermYears))
	if !ref.TermYears.Valid && ref.Term != "" {
		t := term.FromString(ref.Term)
		if t.Known {
			ref.TermYears = decimal.NewNullDecimal(t.Years)
		}
	}
	ref.TermYears = roundNull(ref.TermYears, TermYearsScale)

	// Day counts only make sense for sub-year remainders.
	if ref.RemainingTerm.Valid && ref.RemainingTerm.Decimal.LessThan(decimal.NewFromInt(1)) {
		if n, err := strconv.Atoi(strings.TrimSpace(string(rec.RemainingDays))); err == nil && n >= 0 {
			ref.RemainingDays = &n
		}
	}

	return ref, nil
}

func parseNull(raw string) decimal.NullDecimal {
	d, ok := term.Parse(raw)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// parseYears reads a term in years, honouring day and month units.
func parseYears(raw string) decimal.NullDecimal {
	t := term.FromString(raw)
	if !t.Known {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(t.Years)
}

func roundNull(d decimal.NullDecimal, places int32) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.Round(places))
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "y", "yes", "是":
		return true
	}
	return false
}

var dateLayouts = []string{dateLayout, "2006/01/02", "20060102", time.RFC3339}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
