package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"bondmatch/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestIssuer creates an issuer with the given name.
func CreateTestIssuer(t *testing.T, db *gorm.DB, name string) *models.Issuer {
	t.Helper()

	issuer := &models.Issuer{Name: name}
	if err := db.Create(issuer).Error; err != nil {
		t.Fatalf("failed to create test issuer: %v", err)
	}
	return issuer
}

// CreateTestBond creates a five-year bond with 4.8 years remaining.
func CreateTestBond(t *testing.T, db *gorm.DB, issuerID, code string) *models.Bond {
	t.Helper()

	maturity := Date(2029, time.June, 1)
	bond := &models.Bond{
		Code:          code,
		Name:          "Test Bond " + code,
		IssuerID:      issuerID,
		IssueDate:     Date(2024, time.June, 1),
		MaturityDate:  &maturity,
		CouponRate:    decimal.NewNullDecimal(decimal.RequireFromString("3.25")),
		TermYears:     decimal.NewFromInt(5),
		RemainingTerm: decimal.NewNullDecimal(decimal.RequireFromString("4.8")),
	}
	if err := db.Create(bond).Error; err != nil {
		t.Fatalf("failed to create test bond: %v", err)
	}
	return bond
}

// CreateTestFundCompany creates a fund company of the given type.
func CreateTestFundCompany(t *testing.T, db *gorm.DB, name string, companyType models.CompanyType) *models.FundCompany {
	t.Helper()

	company := &models.FundCompany{Name: name, Type: companyType}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("failed to create test fund company: %v", err)
	}
	return company
}

// CreateTestFund creates a fund managed by companyID.
func CreateTestFund(t *testing.T, db *gorm.DB, companyID, name string) *models.Fund {
	t.Helper()

	fund := &models.Fund{
		FundCompanyID: companyID,
		Name:          name,
		Manager:       fmt.Sprintf("Manager %d", nextID()),
	}
	if err := db.Create(fund).Error; err != nil {
		t.Fatalf("failed to create test fund: %v", err)
	}
	return fund
}

// CreateTestPerson creates a contact attached to owner.
func CreateTestPerson(t *testing.T, db *gorm.DB, owner models.ContactOwner, name string, isPrimary, isLeader bool) *models.Person {
	t.Helper()

	person := &models.Person{
		Name:      name,
		Role:      "trader",
		Mobile:    fmt.Sprintf("1380000%04d", nextID()%10000),
		Email:     fmt.Sprintf("contact%d@test.com", nextID()),
		IsPrimary: isPrimary,
		IsLeader:  isLeader,
	}
	person.SetOwner(owner)
	if err := db.Create(person).Error; err != nil {
		t.Fatalf("failed to create test person: %v", err)
	}
	return person
}

// CreateTestHolding records that holder bought bondID on purchaseDate.
// Historical holdings get a sell date one year later.
func CreateTestHolding(t *testing.T, db *gorm.DB, holder models.HolderRef, bondID string, purchaseDate time.Time, isCurrent bool) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		BondID:        bondID,
		PurchaseDate:  purchaseDate,
		HoldingAmount: decimal.NewFromInt(10_000_000),
		IsCurrent:     isCurrent,
	}
	if !isCurrent {
		sold := purchaseDate.AddDate(1, 0, 0)
		holding.SellDate = &sold
	}
	holding.SetHolder(holder)
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}
