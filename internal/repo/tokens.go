package repo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// CreateTokenEntry appends a ledger entry. The amount is stored unsigned;
// TransactionType decides its sign in the balance.
func CreateTokenEntry(ctx context.Context, db *gorm.DB, t *domain.UserToken) error {
	return db.WithContext(ctx).Create(t).Error
}

// FindTokenEntriesByUserID lists ledger entries newest first.
func FindTokenEntriesByUserID(ctx context.Context, db *gorm.DB, userID uint) ([]domain.UserToken, error) {
	out := []domain.UserToken{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&out).Error
	return out, err
}

// GetTokenBalance returns the sum of credits minus the sum of debits for the
// user, or zero when the ledger is empty. It is never cached. PostgreSQL
// computes it in a single numeric aggregate; SQLite goes through
// sumTokenRows.
func GetTokenBalance(ctx context.Context, db *gorm.DB, userID uint) (decimal.Decimal, error) {
	if db.Dialector.Name() == "sqlite" {
		return sumTokenRows(ctx, db, userID)
	}

	var bal decimal.Decimal
	err := db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(CASE
				WHEN transaction_type = ? THEN amount
				WHEN transaction_type = ? THEN -amount
				ELSE 0 END), 0)
			FROM user_tokens WHERE user_id = ?`,
			domain.TransactionCredit, domain.TransactionDebit, userID).
		Row().Scan(&bal)
	if err != nil {
		return decimal.Zero, err
	}
	return bal, nil
}

// sumTokenRows folds the ledger in Go. SQLite keeps decimal columns as REAL,
// so SUM() accumulates binary rounding error (0.1+0.2), while each row still
// scans back to its shortest decimal form.
func sumTokenRows(ctx context.Context, db *gorm.DB, userID uint) (decimal.Decimal, error) {
	var rows []struct {
		Amount          decimal.Decimal
		TransactionType string
	}
	err := db.WithContext(ctx).
		Model(&domain.UserToken{}).
		Select("amount", "transaction_type").
		Where("user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}

	bal := decimal.Zero
	for _, r := range rows {
		switch r.TransactionType {
		case domain.TransactionCredit:
			bal = bal.Add(r.Amount)
		case domain.TransactionDebit:
			bal = bal.Sub(r.Amount)
		}
	}
	return bal, nil
}
