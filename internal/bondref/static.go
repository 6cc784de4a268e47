package bondref

import (
	"context"
	"fmt"
	"strings"
)

// StaticProvider serves lookups from an in-memory dataset. It backs local
// development and tests, and stands in when no remote provider is configured.
type StaticProvider struct {
	refs []BondReference // dataset order; abbreviation lookups return the first hit
}

// NewStaticProvider normalises records into a provider. Duplicate codes keep
// the first occurrence.
func NewStaticProvider(records []Record) (*StaticProvider, error) {
	p := &StaticProvider{}
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		ref, err := Normalize(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		key := strings.ToUpper(ref.BondCode)
		if seen[key] {
			continue
		}
		seen[key] = true
		p.refs = append(p.refs, *ref)
	}
	return p, nil
}

// NewDefaultStaticProvider returns a provider over DefaultRecords.
func NewDefaultStaticProvider() *StaticProvider {
	p, err := NewStaticProvider(DefaultRecords())
	if err != nil {
		panic(fmt.Sprintf("bondref: default dataset is invalid: %v", err))
	}
	return p
}

// Name returns the provider's display name.
func (p *StaticProvider) Name() string {
	return "static"
}

// LookupByCode returns the bond with the given code, compared case-insensitively.
func (p *StaticProvider) LookupByCode(ctx context.Context, code string) (*BondReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	code = strings.TrimSpace(code)
	for i := range p.refs {
		if strings.EqualFold(p.refs[i].BondCode, code) {
			return p.refs[i].Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// LookupByAbbreviation returns the first bond whose name or issuer contains text.
func (p *StaticProvider) LookupByAbbreviation(ctx context.Context, text string) (*BondReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNotFound
	}
	for i := range p.refs {
		if containsFold(p.refs[i].BondName, text) || containsFold(p.refs[i].Issuer, text) {
			return p.refs[i].Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// DefaultRecords is the built-in reference dataset. Records deliberately mix
// the upstream payload shapes.
func DefaultRecords() []Record {
	return []Record{
		{
			BondCode:      "220501.IB",
			BondName:      "22建设银行二级01",
			Issuer:        "中国建设银行",
			IssueDate:     "2022-01-15",
			MaturityDate:  "2032-01-15",
			Term:          "10Y",
			TermYears:     "10",
			RemainingTerm: "5.25年",
			CouponRate:    "3.45%",
			CanBeRedeemed: "true",
		},
		{
			BondCode:      "220502.IB",
			BondName:      "22建设银行绿色债01",
			Issuer:        "中国建设银行",
			IssueDate:     "2022-03-10",
			MaturityDate:  "2025-03-10",
			Term:          "3Y",
			RemainingTerm: "0.4",
			RemainingDays: "146",
			CouponRate:    "2.70",
		},
		{
			WindCode:      "210215.IB",
			BondName:      "21国开15",
			Issuer:        "国家开发银行",
			IssueBegin:    "20210610",
			MaturityDate:  "2031-06-10",
			Term:          "10年",
			RemainingTerm: "4.8",
			CouponRate:    "3.12",
		},
		{
			WindCode:      "2128012.IB",
			BondName:      "21工商银行永续债01",
			Issuer:        "中国工商银行",
			IssueBegin:    "2021/06/04",
			Term:          "5+N",
			RemainingTerm: "1.6年",
			CouponRate:    "4.04%",
			CanBeRedeemed: "是",
		},
		{
			BondCode:      "019547.SH",
			BondName:      "16国债19",
			Issuer:        "财政部",
			IssueDate:     "2016-08-22",
			MaturityDate:  "2026-08-22",
			Term:          "10Y",
			TermYears:     "10",
			RemainingTerm: "0.35",
			RemainingDays: "128",
			CouponRate:    "2.74",
		},
		{
			BondCode:      "112233.SZ",
			BondName:      "20平安银行债",
			Issuer:        "平安银行",
			IssueDate:     "2020-05-20",
			MaturityDate:  "2023-05-20",
			Term:          "3Y",
			RemainingTerm: "0.0",
			CouponRate:    "2.95",
		},
	}
}
