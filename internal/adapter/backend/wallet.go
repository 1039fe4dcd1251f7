package backend

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/punterhub/wallet/internal/domain/model"
)

// GetUser fetches the current user snapshot for token.
func (c *HTTPClient) GetUser(ctx context.Context, token string) (*model.User, error) {
	var resp userResponse
	if err := c.call(ctx, http.MethodPost, "/client/getUser", token, tokenRequest{Token: token}, &resp); err != nil {
		return nil, err
	}
	return resp.Data.toModel(), nil
}

// Deposit credits coins after a settled checkout.
func (c *HTTPClient) Deposit(ctx context.Context, token, userID string, coins int64) error {
	return c.call(ctx, http.MethodPost, "/client/deposit", token, depositRequest{UserID: userID, Amount: coins}, nil)
}

// ResolveAccount asks the backend to look up the holder name of a bank account.
func (c *HTTPClient) ResolveAccount(ctx context.Context, token, bankCode, accountNumber string) (string, error) {
	var resp resolveResponse
	req := resolveRequest{BankCode: bankCode, AccountNumber: accountNumber}
	if err := c.call(ctx, http.MethodPost, "/client/resolve", token, req, &resp); err != nil {
		return "", err
	}
	return resp.Data.AccountName, nil
}

// Withdraw initiates a bank payout and returns the authoritative balance.
func (c *HTTPClient) Withdraw(ctx context.Context, token string, req model.WithdrawalRequest) (decimal.Decimal, error) {
	payload := withdrawalRequest{
		UserID:         req.UserID,
		Amount:         req.CoinAmount,
		BankCode:       req.BankCode,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		AccountName:    req.AccountName,
		Currency:       req.Currency,
		ConversionRate: req.ConversionRate,
	}
	var resp withdrawalResponse
	if err := c.call(ctx, http.MethodPost, "/client/withdrawal", token, payload, &resp); err != nil {
		return decimal.Zero, err
	}
	return *resp.NewBalance, nil
}
