package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalState tracks the withdrawal form through verification and submission.
type WithdrawalState string

const (
	WithdrawalEditing    WithdrawalState = "EDITING"
	WithdrawalVerifying  WithdrawalState = "VERIFYING"
	WithdrawalVerified   WithdrawalState = "VERIFIED"
	WithdrawalSubmitting WithdrawalState = "SUBMITTING"
	WithdrawalSucceeded  WithdrawalState = "SUCCEEDED"
)

// AccountNumberLength is the length of a NUBAN account number.
const AccountNumberLength = 10

// WithdrawalDraft is the per-user withdrawal form held between requests.
// ResolvedBankCode and ResolvedAccountNumber record the pair the name was
// resolved for. Version is the stored revision the draft was read at, zero
// for a draft that was never saved.
type WithdrawalDraft struct {
	UserID                string
	Amount                int64
	BankCode              string
	BankName              string
	AccountNumber         string
	ResolvedAccountName   string
	ResolvedBankCode      string
	ResolvedAccountNumber string
	LastError             string
	State                 WithdrawalState
	Version               int64
	UpdatedAt             time.Time
}

// NewWithdrawalDraft returns an empty draft in the editing state.
func NewWithdrawalDraft(userID string) *WithdrawalDraft {
	return &WithdrawalDraft{UserID: userID, State: WithdrawalEditing}
}

// SetAccount updates the bank details. A change to the bank code or account
// number invalidates the resolution and reports true.
func (d *WithdrawalDraft) SetAccount(bankCode, bankName, accountNumber string) bool {
	changed := bankCode != d.BankCode || accountNumber != d.AccountNumber
	d.BankCode = bankCode
	d.BankName = bankName
	d.AccountNumber = accountNumber
	if changed {
		d.ClearResolution()
		d.State = WithdrawalEditing
	}
	return changed
}

// ClearResolution forgets the resolved holder name.
func (d *WithdrawalDraft) ClearResolution() {
	d.ResolvedAccountName = ""
	d.ResolvedBankCode = ""
	d.ResolvedAccountNumber = ""
}

// Resolve records the holder name for the current bank details.
func (d *WithdrawalDraft) Resolve(name string) {
	d.ResolvedAccountName = name
	d.ResolvedBankCode = d.BankCode
	d.ResolvedAccountNumber = d.AccountNumber
	d.LastError = ""
	d.State = WithdrawalVerified
}

// ResolutionMatches reports whether the resolved name belongs to the current
// bank code and account number.
func (d *WithdrawalDraft) ResolutionMatches() bool {
	return d.ResolvedAccountName != "" &&
		d.ResolvedBankCode == d.BankCode &&
		d.ResolvedAccountNumber == d.AccountNumber
}

// WithdrawalEdit carries the form fields being changed. Nil fields are left
// untouched.
type WithdrawalEdit struct {
	Amount        *string
	BankCode      *string
	BankName      *string
	AccountNumber *string
}

// WithdrawalRequest is posted to the backend. The backend is the sole
// authority on the resulting balance.
type WithdrawalRequest struct {
	UserID         string
	CoinAmount     int64
	BankCode       string
	BankName       string
	AccountNumber  string
	AccountName    string
	Currency       string
	ConversionRate decimal.Decimal
}

// WithdrawalReceipt carries the authoritative balance after a withdrawal.
type WithdrawalReceipt struct {
	NewBalance decimal.Decimal
	CloseAfter time.Duration
}

// Bank is an entry of the provider's bank directory.
type Bank struct {
	Code string
	Name string
}
