package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipKind distinguishes betting codes from trading signals.
type TipKind string

const (
	TipKindBet    TipKind = "bet"
	TipKindSignal TipKind = "signal"
)

// Punter is a tipster listed on the marketplace.
type Punter struct {
	ID          string
	Username    string
	Bio         string
	Subscribers int64
	WinRate     decimal.Decimal
	Pricing     SubscriptionPricing
}

// SubscriptionPricing is what a punter charges subscribers, in coins.
type SubscriptionPricing struct {
	Weekly  decimal.Decimal
	Monthly decimal.Decimal
}

// Tip is a prediction sold to subscribers. Signal levels are set only for
// TipKindSignal.
type Tip struct {
	ID         string
	PunterID   string
	Kind       TipKind
	Title      string
	Content    string
	Odds       decimal.Decimal
	Price      decimal.Decimal
	Pair       string
	Entry      decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
	Locked     bool
	CreatedAt  time.Time
}

// Comment is a user reply under a tip.
type Comment struct {
	ID        string
	TipID     string
	UserID    string
	Body      string
	CreatedAt time.Time
}

// Message is a chat line in a conversation between a customer and a punter.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Body           string
	CreatedAt      time.Time
}

// Conversation is a chat thread.
type Conversation struct {
	ID           string
	Participants []string
}

// ProfileUpdate carries editable profile fields; empty fields are left unchanged.
type ProfileUpdate struct {
	Username string
	Bio      string
	Phone    string
}
