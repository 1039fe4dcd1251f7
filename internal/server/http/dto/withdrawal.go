package dto

// WithdrawalEditRequest changes withdrawal form fields. Absent fields are
// left untouched.
type WithdrawalEditRequest struct {
	Amount        *string `json:"amount"`
	BankCode      *string `json:"bankCode"`
	BankName      *string `json:"bankName"`
	AccountNumber *string `json:"accountNumber"`
}

// WithdrawalDraftResponse is the withdrawal form as stored.
type WithdrawalDraftResponse struct {
	Amount        int64  `json:"amount"`
	BankCode      string `json:"bankCode"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName,omitempty"`
	Verified      bool   `json:"verified"`
	State         string `json:"state"`
	Error         string `json:"error,omitempty"`
}

// WithdrawalReceiptResponse confirms a withdrawal.
type WithdrawalReceiptResponse struct {
	Balance      string `json:"balance"`
	Currency     string `json:"currency"`
	CloseAfterMs int64  `json:"closeAfterMs"`
}
