package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"
)

// maxTokenAmount matches the decimal(18,8) column: ten integer digits.
var maxTokenAmount = decimal.New(1, 10)

// TokenInput is one ledger entry. Amount is unsigned; TransactionType
// decides its sign in the balance.
type TokenInput struct {
	Amount          decimal.Decimal
	TransactionType string
	Source          *string
	Description     *string
}

// TokenLedger is the user's entries together with the derived balance.
type TokenLedger struct {
	Transactions []domain.UserToken `json:"transactions"`
	Balance      decimal.Decimal    `json:"balance"`
}

// TokenService appends to and reads the token ledger. It does not enforce
// spending rules: a debit may take the balance below zero.
type TokenService struct {
	DB *gorm.DB
}

// Add validates in, appends the entry and returns it with the new balance.
func (s *TokenService) Add(ctx context.Context, userID uint, in TokenInput) (*domain.UserToken, decimal.Decimal, error) {
	kind := strings.ToLower(strings.TrimSpace(in.TransactionType))
	if kind != domain.TransactionCredit && kind != domain.TransactionDebit {
		return nil, decimal.Zero, invalid("transaction_type", "must be credit or debit")
	}
	if !in.Amount.IsPositive() {
		return nil, decimal.Zero, invalid("amount", "must be greater than zero")
	}
	if in.Amount.GreaterThanOrEqual(maxTokenAmount) {
		return nil, decimal.Zero, invalid("amount", "is too large")
	}
	if !in.Amount.Equal(in.Amount.Truncate(8)) {
		return nil, decimal.Zero, invalid("amount", "has more than 8 decimal places")
	}
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, decimal.Zero, err
	}

	entry := &domain.UserToken{
		UserID:          userID,
		Amount:          in.Amount,
		TransactionType: kind,
		Source:          optionalText(in.Source),
		Description:     optionalText(in.Description),
	}
	if err := repo.CreateTokenEntry(ctx, s.DB, entry); err != nil {
		return nil, decimal.Zero, err
	}
	bal, err := repo.GetTokenBalance(ctx, s.DB, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return entry, bal, nil
}

// Ledger returns the user's entries newest first and the current balance.
func (s *TokenService) Ledger(ctx context.Context, userID uint) (*TokenLedger, error) {
	entries, err := repo.FindTokenEntriesByUserID(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	bal, err := repo.GetTokenBalance(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	return &TokenLedger{Transactions: entries, Balance: bal}, nil
}

// Balance returns credits minus debits for the user, zero for none.
func (s *TokenService) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return repo.GetTokenBalance(ctx, s.DB, userID)
}
