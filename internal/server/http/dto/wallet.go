package dto

// PackageResponse is one entry of the coin catalog.
type PackageResponse struct {
	Index      int    `json:"index"`
	Coins      int64  `json:"coins"`
	BonusCoins int64  `json:"bonusCoins"`
	Price      string `json:"price"`
	Featured   bool   `json:"featured"`
}

// PricingResponse is the pricing of a selection.
type PricingResponse struct {
	TotalCoins       int64  `json:"totalCoins"`
	BaseCoins        int64  `json:"baseCoins"`
	BonusCoins       int64  `json:"bonusCoins"`
	DisplayPrice     string `json:"displayPrice"`
	TransactionPrice string `json:"transactionPrice"`
	Currency         string `json:"currency"`
	GatewayAmount    int64  `json:"gatewayAmount"`
}

// DepositRequest starts a checkout. Selection is a package index or -1 for
// a custom amount.
type DepositRequest struct {
	Selection *int   `json:"selection"`
	Amount    string `json:"amount"`
}

// CheckoutResponse carries what the checkout widget needs.
type CheckoutResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl,omitempty"`
	AccessCode       string `json:"accessCode,omitempty"`
	PublicKey        string `json:"publicKey"`
	Email            string `json:"email"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
}

// DepositReceiptResponse confirms a credited deposit.
type DepositReceiptResponse struct {
	Reference    string        `json:"reference"`
	Coins        int64         `json:"coins"`
	CloseAfterMs int64         `json:"closeAfterMs"`
	User         *UserResponse `json:"user,omitempty"`
}

// BankResponse is an entry of the bank directory.
type BankResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
