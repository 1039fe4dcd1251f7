package model

import "time"

// DepositStatus describes the checkout lifecycle of a coin purchase.
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "PENDING"
	DepositStatusCrediting DepositStatus = "CREDITING"
	DepositStatusCredited  DepositStatus = "CREDITED"
	DepositStatusCancelled DepositStatus = "CANCELLED"
	DepositStatusFailed    DepositStatus = "FAILED"
)

// Deposit records a checkout opened for a coin purchase. Selection and
// CustomAmount are kept so pricing can be recomputed at settlement.
type Deposit struct {
	Reference     string
	UserID        string
	Email         string
	Selection     int
	CustomAmount  string
	TotalCoins    int64
	GatewayAmount int64
	Status        DepositStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Charge is what the checkout gateway needs to open a payment.
type Charge struct {
	Reference string
	Email     string
	Amount    int64
	Currency  string
}

// Checkout is the handle the UI widget uses to collect payment.
type Checkout struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
	PublicKey        string
	Email            string
	Amount           int64
}

// CheckoutOutcome tells how a checkout ended.
type CheckoutOutcome string

const (
	OutcomeSuccess   CheckoutOutcome = "success"
	OutcomeCancelled CheckoutOutcome = "cancelled"
	OutcomeFailed    CheckoutOutcome = "failed"
)

// CheckoutResult is the verified state of a checkout.
type CheckoutResult struct {
	Reference string
	Outcome   CheckoutOutcome
	Amount    int64
	Message   string
}

// DepositReceipt is returned once coins were credited.
type DepositReceipt struct {
	Reference  string
	Coins      int64
	CloseAfter time.Duration
}
