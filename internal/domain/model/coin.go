package model

import "github.com/shopspring/decimal"

const (
	// CustomSelection marks a free-form coin quantity instead of a catalog package.
	CustomSelection = -1
	// Currency is the unit of account every price is quoted in.
	Currency = "NGN"
)

// CoinRate is the local currency price of a single coin.
var CoinRate = decimal.NewFromInt(100)

// CoinPackage is a fixed coin bundle sold at a set price.
type CoinPackage struct {
	CoinCount  int64
	Price      decimal.Decimal
	Featured   bool
	BonusCoins int64
}

// Catalog is an ordered, build-time list of coin packages.
type Catalog []CoinPackage

// DefaultCatalog returns the packages offered on the wallet top-up screen.
func DefaultCatalog() Catalog {
	return Catalog{
		{CoinCount: 10, Price: decimal.NewFromInt(1000)},
		{CoinCount: 25, Price: decimal.NewFromInt(2500)},
		{CoinCount: 50, Price: decimal.NewFromInt(5000), Featured: true, BonusCoins: 5},
		{CoinCount: 100, Price: decimal.NewFromInt(10000), BonusCoins: 15},
		{CoinCount: 250, Price: decimal.NewFromInt(25000), BonusCoins: 50},
	}
}

// Package returns the package at index i.
func (c Catalog) Package(i int) (CoinPackage, bool) {
	if i < 0 || i >= len(c) {
		return CoinPackage{}, false
	}
	return c[i], true
}
