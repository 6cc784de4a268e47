package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"bondmatch/internal/bondref"
)

// fakeLookup is an in-memory bondref.Lookup whose failure mode can be forced.
type fakeLookup struct {
	refs  map[string]bondref.BondReference
	err   error
	calls int
}

func newFakeLookup(refs ...bondref.BondReference) *fakeLookup {
	l := &fakeLookup{refs: make(map[string]bondref.BondReference)}
	for _, r := range refs {
		l.refs[r.BondCode] = r
	}
	return l
}

func (l *fakeLookup) Name() string { return "fake" }

func (l *fakeLookup) LookupByCode(_ context.Context, code string) (*bondref.BondReference, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	ref, ok := l.refs[code]
	if !ok {
		return nil, bondref.ErrNotFound
	}
	return &ref, nil
}

func (l *fakeLookup) LookupByAbbreviation(_ context.Context, text string) (*bondref.BondReference, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	for _, ref := range l.refs {
		if strings.Contains(ref.BondName, text) || strings.Contains(ref.Issuer, text) {
			r := ref
			return &r, nil
		}
	}
	return nil, bondref.ErrNotFound
}

func years(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func ccbReference() bondref.BondReference {
	return bondref.BondReference{
		BondCode:      "220501.IB",
		BondName:      "22建设银行二级01",
		Issuer:        "中国建设银行",
		RemainingTerm: years("5.25"),
	}
}
