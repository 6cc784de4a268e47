package services

// HoldingScope selects which holdings count as evidence that a holder has
// held an issuer's bonds.
type HoldingScope string

const (
	// HoldingScopeAll counts current and sold positions.
	HoldingScopeAll HoldingScope = "all"
	// HoldingScopeCurrent counts only positions still held.
	HoldingScopeCurrent HoldingScope = "current"
)

// ParseHoldingScope maps a config value to a scope, defaulting to all.
func ParseHoldingScope(s string) HoldingScope {
	if HoldingScope(s) == HoldingScopeCurrent {
		return HoldingScopeCurrent
	}
	return HoldingScopeAll
}

// IssuerMatch selects how a resolved issuer name is compared with stored issuers.
type IssuerMatch string

const (
	// IssuerMatchExact compares names for equality.
	IssuerMatchExact IssuerMatch = "exact"
	// IssuerMatchFuzzy matches stored names containing the resolved name.
	IssuerMatchFuzzy IssuerMatch = "fuzzy"
)

// ParseIssuerMatch maps a config value to a match mode, defaulting to exact.
func ParseIssuerMatch(s string) IssuerMatch {
	if IssuerMatch(s) == IssuerMatchFuzzy {
		return IssuerMatchFuzzy
	}
	return IssuerMatchExact
}
