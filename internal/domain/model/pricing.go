package model

// PricingResult is the derived price of a coin selection. It is recomputed on
// every input change and never persisted.
type PricingResult struct {
	TotalCoins       int64
	BaseCoins        int64
	BonusCoins       int64
	DisplayPrice     string
	TransactionPrice string
	Currency         string
	// GatewayAmount is TransactionPrice in minor units (kobo).
	GatewayAmount int64
}
