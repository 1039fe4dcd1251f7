package usecase

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/punterhub/wallet/internal/domain/model"
)

// maxCustomCoins keeps the minor-unit gateway amount within int64.
var maxCustomCoins = math.MaxInt64 / model.CoinRate.Shift(2).IntPart()

// ComputePricing derives the price of a catalog package or a custom coin
// quantity. It never fails: unknown selections and unusable custom input
// price to zero.
func ComputePricing(catalog model.Catalog, selection int, customAmount string) model.PricingResult {
	var (
		base, bonus int64
		price       decimal.Decimal
	)

	if selection == model.CustomSelection {
		base = ParseCoins(customAmount)
		price = model.CoinRate.Mul(decimal.NewFromInt(base))
	} else if pkg, ok := catalog.Package(selection); ok {
		base, bonus, price = pkg.CoinCount, pkg.BonusCoins, pkg.Price
	}

	price = price.Round(2)
	return model.PricingResult{
		TotalCoins:       base + bonus,
		BaseCoins:        base,
		BonusCoins:       bonus,
		DisplayPrice:     price.StringFixed(2),
		TransactionPrice: price.StringFixed(2),
		Currency:         model.Currency,
		GatewayAmount:    price.Shift(2).Round(0).IntPart(),
	}
}

// ParseCoins reads a positive whole number of coins. Signs, spaces,
// fractions and values too large to price yield 0.
func ParseCoins(s string) int64 {
	if s == "" {
		return 0
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0
		}
		d := int64(c - '0')
		if n > (maxCustomCoins-d)/10 {
			return 0
		}
		n = n*10 + d
	}
	return n
}
