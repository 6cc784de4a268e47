package testutil_test

import (
	"testing"
	"time"

	"bondmatch/internal/errors"
	"bondmatch/internal/models"
	"bondmatch/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "issuers", "bonds", "fund_companies", "funds", "people", "holdings", "search_histories", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestIssuer(t, first, "中国建设银行")

	var count int64
	second.Model(&models.Issuer{}).Count(&count)
	if count != 0 {
		t.Errorf("expected second database to be empty, found %d issuers", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	issuer := testutil.CreateTestIssuer(t, db, "中国建设银行")
	bond := testutil.CreateTestBond(t, db, issuer.ID, "220501.IB")
	if bond.IssuerID != issuer.ID {
		t.Errorf("expected bond issuer %s, got %s", issuer.ID, bond.IssuerID)
	}

	company := testutil.CreateTestFundCompany(t, db, "易方达基金", models.CompanyTypeFund)
	fund := testutil.CreateTestFund(t, db, company.ID, "易方达纯债")
	if fund.FundCompanyID != company.ID {
		t.Errorf("expected fund company %s, got %s", company.ID, fund.FundCompanyID)
	}

	person := testutil.CreateTestPerson(t, db, models.FundHolder(fund.ID), "张三", true, false)
	owner, err := person.Owner()
	testutil.AssertNoError(t, err)
	if owner != models.FundHolder(fund.ID) {
		t.Errorf("expected owner %s, got %s", models.FundHolder(fund.ID), owner)
	}

	sold := testutil.CreateTestHolding(t, db, models.CompanyHolder(company.ID), bond.ID, testutil.Date(2022, time.March, 1), false)
	if sold.IsCurrent {
		t.Error("expected historical holding")
	}
	if sold.SellDate == nil {
		t.Error("expected sell date on historical holding")
	}

	var reloaded models.Holding
	if err := db.First(&reloaded, "id = ?", sold.ID).Error; err != nil {
		t.Fatalf("failed to reload holding: %v", err)
	}
	if reloaded.IsCurrent {
		t.Error("expected is_current=false to survive a round trip")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrBondNotFound, "custom message")
	testutil.AssertAppError(t, err, "BOND_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
