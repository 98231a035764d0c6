// Token ledger HTTP handlers.
//
//   - GET  /users/{userId}/tokens   ({"transactions": [...], "balance": "..."})
//   - POST /users/{userId}/tokens
//
// Balances are decimals serialized as strings, e.g. "87.75".
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/services"
)

// AddTokensRequest appends one ledger entry. Amount accepts a JSON number
// or string and must be positive; the type decides its sign.
type AddTokensRequest struct {
	Amount          decimal.Decimal `json:"amount" swaggertype:"string" example:"12.5"`
	TransactionType string          `json:"transaction_type" example:"credit" enums:"credit,debit"`
	Source          *string         `json:"source" example:"daily_plan"`
	Description     *string         `json:"description" example:"Completed all tasks"`
}

// AddTokensResponse is the stored entry and the resulting balance.
type AddTokensResponse struct {
	Transaction *domain.UserToken `json:"transaction"`
	Balance     decimal.Decimal   `json:"balance" swaggertype:"string" example:"87.75"`
}

// GetTokens godoc
// @ID          getTokens
// @Summary     Token ledger and balance
// @Tags        Tokens
// @Produce     json
// @Param       userId  path      int  true  "User ID"
// @Success     200     {object}  services.TokenLedger
// @Failure     404     {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/tokens [get]
func (h *Handlers) GetTokens(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	ledger, err := h.svc.Tokens.Ledger(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ledger)
}

// AddTokens godoc
// @ID          addTokens
// @Summary     Credit or debit tokens
// @Tags        Tokens
// @Accept      json
// @Produce     json
// @Param       userId  path      int                        true  "User ID"
// @Param       body    body      handlers.AddTokensRequest  true  "Ledger entry"
// @Success     201     {object}  handlers.AddTokensResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404     {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/tokens [post]
func (h *Handlers) AddTokens(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	var req AddTokensRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, bal, err := h.svc.Tokens.Add(c.Request.Context(), uid, services.TokenInput{
		Amount:          req.Amount,
		TransactionType: req.TransactionType,
		Source:          req.Source,
		Description:     req.Description,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, AddTokensResponse{Transaction: entry, Balance: bal})
}
