package repo

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-health-backend/internal/domain"
)

func TestTokenBalance_EmptyLedgerIsZero(t *testing.T) {
	db := newTestDB(t, true)
	u := seedUser(t, db, "zero@example.com")
	bal, err := GetTokenBalance(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !bal.IsZero() {
		t.Fatalf("empty ledger balance = %s; want 0", bal)
	}
}

func TestTokenBalance_CreditsMinusDebits(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "ledger@example.com")
	other := seedUser(t, db, "ledger2@example.com")

	entries := []domain.UserToken{
		{UserID: u.ID, Amount: decimal.RequireFromString("100"), TransactionType: domain.TransactionCredit, Source: ptr("signup")},
		{UserID: u.ID, Amount: decimal.RequireFromString("30"), TransactionType: domain.TransactionDebit},
		{UserID: u.ID, Amount: decimal.RequireFromString("12.5"), TransactionType: domain.TransactionCredit},
		{UserID: other.ID, Amount: decimal.RequireFromString("1000"), TransactionType: domain.TransactionCredit},
	}
	for i := range entries {
		if err := CreateTokenEntry(ctx, db, &entries[i]); err != nil {
			t.Fatalf("entry %d: %v", i, err)
		}
	}

	bal, err := GetTokenBalance(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !bal.Equal(decimal.RequireFromString("82.5")) {
		t.Fatalf("balance = %s; want 82.5", bal)
	}

	list, err := FindTokenEntriesByUserID(ctx, db, u.ID)
	if err != nil || len(list) != 3 {
		t.Fatalf("entries: %d, %v", len(list), err)
	}
	if !list[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("entries should be newest first, got %s first", list[0].Amount)
	}
}

func TestTokenBalance_FractionsAreExact(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "fractions@example.com")

	add := func(amount, kind string) {
		t.Helper()
		e := domain.UserToken{UserID: u.ID, Amount: decimal.RequireFromString(amount), TransactionType: kind}
		if err := CreateTokenEntry(ctx, db, &e); err != nil {
			t.Fatalf("entry %s %s: %v", kind, amount, err)
		}
	}
	balance := func() decimal.Decimal {
		t.Helper()
		bal, err := GetTokenBalance(ctx, db, u.ID)
		if err != nil {
			t.Fatalf("balance: %v", err)
		}
		return bal
	}

	add("0.1", domain.TransactionCredit)
	add("0.2", domain.TransactionCredit)
	if bal := balance(); bal.String() != "0.3" {
		t.Fatalf("balance = %s; want exactly 0.3", bal)
	}

	add("0.3", domain.TransactionDebit)
	if bal := balance(); !bal.IsZero() {
		t.Fatalf("balance = %s; want exactly 0", bal)
	}

	add("0.00000001", domain.TransactionDebit)
	if bal := balance(); bal.String() != "-0.00000001" {
		t.Fatalf("balance = %s; want -0.00000001", bal)
	}
}

func TestTokenBalance_PostgresUsesSingleAggregate(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open postgres dialector: %v", err)
	}

	mock.ExpectQuery(`(?s)SELECT COALESCE\(SUM\(CASE .* FROM user_tokens WHERE user_id = \$3`).
		WithArgs(domain.TransactionCredit, domain.TransactionDebit, 9).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0.30000000"))

	bal, err := GetTokenBalance(context.Background(), gdb, 9)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !bal.Equal(decimal.RequireFromString("0.3")) {
		t.Fatalf("balance = %s; want 0.3", bal)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
