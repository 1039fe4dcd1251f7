package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PunterResponse is a punter card.
type PunterResponse struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Bio         string          `json:"bio,omitempty"`
	Subscribers int64           `json:"subscribers"`
	WinRate     decimal.Decimal `json:"winRate"`
	Weekly      decimal.Decimal `json:"weekly"`
	Monthly     decimal.Decimal `json:"monthly"`
}

// TipResponse is a bet tip or trading signal.
type TipResponse struct {
	ID         string           `json:"id"`
	PunterID   string           `json:"punterId"`
	Kind       string           `json:"kind"`
	Title      string           `json:"title"`
	Content    string           `json:"content,omitempty"`
	Odds       *decimal.Decimal `json:"odds,omitempty"`
	Price      decimal.Decimal  `json:"price"`
	Pair       string           `json:"pair,omitempty"`
	Entry      *decimal.Decimal `json:"entry,omitempty"`
	StopLoss   *decimal.Decimal `json:"stopLoss,omitempty"`
	TakeProfit *decimal.Decimal `json:"takeProfit,omitempty"`
	Locked     bool             `json:"locked"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// TipRequest publishes a bet tip.
type TipRequest struct {
	Title   string          `json:"title"`
	Content string          `json:"content"`
	Odds    decimal.Decimal `json:"odds"`
	Price   decimal.Decimal `json:"price"`
}

// SignalRequest publishes a trading signal.
type SignalRequest struct {
	Title      string          `json:"title"`
	Pair       string          `json:"pair"`
	Entry      decimal.Decimal `json:"entry"`
	StopLoss   decimal.Decimal `json:"stopLoss"`
	TakeProfit decimal.Decimal `json:"takeProfit"`
	Price      decimal.Decimal `json:"price"`
}

// CommentRequest comments on a tip.
type CommentRequest struct {
	TipID string `json:"tipId"`
	Body  string `json:"body"`
}

// CommentResponse is a stored comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TipID     string    `json:"tipId"`
	UserID    string    `json:"userId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageRequest posts to an existing conversation.
type MessageRequest struct {
	ConversationID string `json:"conversationId"`
	Body           string `json:"body"`
}

// MessageResponse is a stored message.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ConversationRequest opens a conversation with a first message.
type ConversationRequest struct {
	RecipientID string `json:"recipientId"`
	Body        string `json:"body"`
}

// ConversationResponse is an opened conversation.
type ConversationResponse struct {
	ID           string   `json:"id"`
	Participants []string `json:"participants"`
}

// ProfileRequest edits the user's profile.
type ProfileRequest struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Phone    string `json:"phone"`
}

// PricingRequest sets a punter's subscription prices.
type PricingRequest struct {
	Weekly  decimal.Decimal `json:"weekly"`
	Monthly decimal.Decimal `json:"monthly"`
}
