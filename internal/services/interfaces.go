package services

import (
	"context"

	"bondmatch/internal/bondref"
	"bondmatch/internal/models"
	"bondmatch/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	UpdatePassword(userID string, newPassword string) error
}

// PasswordResetServicer issues and redeems single-use password reset codes.
type PasswordResetServicer interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// BondServicer is the issuer resolver plus the bond reference operations
// built on the same lookup.
type BondServicer interface {
	ResolveIssuer(ctx context.Context, bondCode string) (*ResolvedBond, error)
	LookupByCode(ctx context.Context, code string) (*bondref.BondReference, error)
	LookupByAbbreviation(ctx context.Context, text string) (*bondref.BondReference, error)
	RefreshBond(ctx context.Context, ref *bondref.BondReference) (bool, error)
	RefreshByCode(ctx context.Context, code string) (bool, error)
}

// IssuerServicer lists the locally known issuers.
type IssuerServicer interface {
	ListIssuers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Issuer], error)
}

// HoldingServicer finds every distinct holder of an issuer's bonds.
type HoldingServicer interface {
	FindHolders(ctx context.Context, issuerName string, scope HoldingScope) ([]models.HolderRef, error)
}

// ContactServicer loads a holder's contacts and picks the primary one.
type ContactServicer interface {
	ResolveContacts(ctx context.Context, holder models.HolderRef) (*ContactRoster, error)
}

// MatchServicer finds potential buyers for a bond.
type MatchServicer interface {
	Match(ctx context.Context, bondCode, userID string, opts MatchOptions) (*MatchResult, error)
}

// SearchHistoryServicer appends and reads a user's search history.
type SearchHistoryServicer interface {
	Record(ctx context.Context, entry SearchEntry)
	History(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
