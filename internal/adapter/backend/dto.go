package backend

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/punterhub/wallet/internal/domain/model"
)

type tokenRequest struct {
	Token string `json:"token"`
}

type userDTO struct {
	ID          string           `json:"_id" validate:"required"`
	Email       string           `json:"email"`
	Balance     *decimal.Decimal `json:"balance" validate:"required"`
	IsVerified  bool             `json:"isVerified"`
	CountryCode string           `json:"countryCode"`
	Role        string           `json:"role"`
}

func (d *userDTO) toModel() *model.User {
	role, _ := model.ParseRole(d.Role)
	return &model.User{
		ID:          d.ID,
		Email:       d.Email,
		Balance:     *d.Balance,
		Verified:    d.IsVerified,
		CountryCode: d.CountryCode,
		Role:        role,
		FetchedAt:   time.Now(),
	}
}

type userResponse struct {
	Data *userDTO `json:"data" validate:"required"`
}

type depositRequest struct {
	UserID string `json:"userId"`
	Amount int64  `json:"amount"`
}

type resolveRequest struct {
	BankCode      string `json:"bankCode"`
	AccountNumber string `json:"accountNumber"`
}

type resolveResponse struct {
	Data *struct {
		AccountName   string `json:"account_name" validate:"required"`
		AccountNumber string `json:"account_number"`
	} `json:"data" validate:"required"`
}

type withdrawalRequest struct {
	UserID         string          `json:"userId"`
	Amount         int64           `json:"amount"`
	BankCode       string          `json:"bankCode"`
	BankName       string          `json:"bankName"`
	AccountNumber  string          `json:"accountNumber"`
	AccountName    string          `json:"accountName"`
	Currency       string          `json:"currency"`
	ConversionRate decimal.Decimal `json:"conversionRate"`
}

type withdrawalResponse struct {
	NewBalance *decimal.Decimal `json:"newBalance" validate:"required"`
}

type pricingDTO struct {
	Weekly  decimal.Decimal `json:"weekly"`
	Monthly decimal.Decimal `json:"monthly"`
}

type punterDTO struct {
	ID          string          `json:"_id" validate:"required"`
	Username    string          `json:"username" validate:"required"`
	Bio         string          `json:"bio"`
	Subscribers int64           `json:"subscribers"`
	WinRate     decimal.Decimal `json:"winRate"`
	Pricing     pricingDTO      `json:"pricing"`
}

func (d punterDTO) toModel() model.Punter {
	return model.Punter{
		ID:          d.ID,
		Username:    d.Username,
		Bio:         d.Bio,
		Subscribers: d.Subscribers,
		WinRate:     d.WinRate,
		Pricing:     model.SubscriptionPricing{Weekly: d.Pricing.Weekly, Monthly: d.Pricing.Monthly},
	}
}

type tipDTO struct {
	ID         string          `json:"_id" validate:"required"`
	PunterID   string          `json:"punterId"`
	Type       string          `json:"type"`
	Title      string          `json:"title"`
	Content    string          `json:"content,omitempty"`
	Odds       decimal.Decimal `json:"odds"`
	Price      decimal.Decimal `json:"price"`
	Pair       string          `json:"pair,omitempty"`
	Entry      decimal.Decimal `json:"entry"`
	StopLoss   decimal.Decimal `json:"stopLoss"`
	TakeProfit decimal.Decimal `json:"takeProfit"`
	Locked     bool            `json:"locked"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (d tipDTO) toModel() model.Tip {
	kind := model.TipKindBet
	if d.Type == string(model.TipKindSignal) {
		kind = model.TipKindSignal
	}
	return model.Tip{
		ID:         d.ID,
		PunterID:   d.PunterID,
		Kind:       kind,
		Title:      d.Title,
		Content:    d.Content,
		Odds:       d.Odds,
		Price:      d.Price,
		Pair:       d.Pair,
		Entry:      d.Entry,
		StopLoss:   d.StopLoss,
		TakeProfit: d.TakeProfit,
		Locked:     d.Locked,
		CreatedAt:  d.CreatedAt,
	}
}

type tipResponse struct {
	Data *tipDTO `json:"data" validate:"required"`
}

type createTipRequest struct {
	Title   string          `json:"title"`
	Content string          `json:"content"`
	Odds    decimal.Decimal `json:"odds"`
	Price   decimal.Decimal `json:"price"`
}

type createSignalRequest struct {
	Title      string          `json:"title"`
	Pair       string          `json:"pair"`
	Entry      decimal.Decimal `json:"entry"`
	StopLoss   decimal.Decimal `json:"stopLoss"`
	TakeProfit decimal.Decimal `json:"takeProfit"`
	Price      decimal.Decimal `json:"price"`
}

type buyTipRequest struct {
	TipID string `json:"tipId"`
}

type commentRequest struct {
	TipID string `json:"tipId"`
	Body  string `json:"body"`
}

type commentResponse struct {
	Data *struct {
		ID        string    `json:"_id" validate:"required"`
		TipID     string    `json:"tipId"`
		UserID    string    `json:"userId"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"data" validate:"required"`
}

type sendMessageRequest struct {
	ConversationID string `json:"conversationId"`
	Body           string `json:"body"`
}

type messageResponse struct {
	Data *struct {
		ID             string    `json:"_id" validate:"required"`
		ConversationID string    `json:"conversationId"`
		SenderID       string    `json:"senderId"`
		Body           string    `json:"body"`
		CreatedAt      time.Time `json:"createdAt"`
	} `json:"data" validate:"required"`
}

type createMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Body        string `json:"body"`
}

type conversationResponse struct {
	Data *struct {
		ID           string   `json:"_id" validate:"required"`
		Participants []string `json:"participants"`
	} `json:"data" validate:"required"`
}

type editProfileRequest struct {
	Username string `json:"username,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// records decodes list endpoints that answer either with a bare array or
// with a {data: [...]} envelope.
type records[T any] struct {
	Items []T `validate:"dive"`
}

func (r *records[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &r.Items)
	}
	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	r.Items = envelope.Data
	return nil
}
