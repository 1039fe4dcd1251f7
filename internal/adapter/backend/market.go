package backend

import (
	"context"
	"net/http"

	"github.com/punterhub/wallet/internal/domain/model"
)

func (c *HTTPClient) Punters(ctx context.Context, token string) ([]model.Punter, error) {
	var resp records[punterDTO]
	if err := c.call(ctx, http.MethodGet, "/client/getPunters", token, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Punter, 0, len(resp.Items))
	for _, p := range resp.Items {
		out = append(out, p.toModel())
	}
	return out, nil
}

func (c *HTTPClient) Daily(ctx context.Context, token string) ([]model.Tip, error) {
	return c.tips(ctx, http.MethodGet, "/client/getDaily", token)
}

func (c *HTTPClient) Feed(ctx context.Context, token string) ([]model.Tip, error) {
	return c.tips(ctx, http.MethodPost, "/client/getFeed", token)
}

func (c *HTTPClient) tips(ctx context.Context, method, endpoint, token string) ([]model.Tip, error) {
	var payload any
	if method == http.MethodPost {
		payload = tokenRequest{Token: token}
	}
	var resp records[tipDTO]
	if err := c.call(ctx, method, endpoint, token, payload, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Tip, 0, len(resp.Items))
	for _, t := range resp.Items {
		out = append(out, t.toModel())
	}
	return out, nil
}

// BuyTip unlocks a tip; the backend debits the coin price.
func (c *HTTPClient) BuyTip(ctx context.Context, token, tipID string) (*model.Tip, error) {
	var resp tipResponse
	if err := c.call(ctx, http.MethodPost, "/client/buyTip", token, buyTipRequest{TipID: tipID}, &resp); err != nil {
		return nil, err
	}
	tip := resp.Data.toModel()
	return &tip, nil
}

func (c *HTTPClient) CreateTip(ctx context.Context, token string, tip model.Tip) (*model.Tip, error) {
	req := createTipRequest{Title: tip.Title, Content: tip.Content, Odds: tip.Odds, Price: tip.Price}
	var resp tipResponse
	if err := c.call(ctx, http.MethodPost, "/client/createTip", token, req, &resp); err != nil {
		return nil, err
	}
	created := resp.Data.toModel()
	return &created, nil
}

func (c *HTTPClient) CreateSignal(ctx context.Context, token string, tip model.Tip) (*model.Tip, error) {
	req := createSignalRequest{
		Title:      tip.Title,
		Pair:       tip.Pair,
		Entry:      tip.Entry,
		StopLoss:   tip.StopLoss,
		TakeProfit: tip.TakeProfit,
		Price:      tip.Price,
	}
	var resp tipResponse
	if err := c.call(ctx, http.MethodPost, "/client/createSignal", token, req, &resp); err != nil {
		return nil, err
	}
	created := resp.Data.toModel()
	created.Kind = model.TipKindSignal
	return &created, nil
}

func (c *HTTPClient) Comment(ctx context.Context, token, tipID, body string) (*model.Comment, error) {
	var resp commentResponse
	if err := c.call(ctx, http.MethodPost, "/client/comment", token, commentRequest{TipID: tipID, Body: body}, &resp); err != nil {
		return nil, err
	}
	d := resp.Data
	return &model.Comment{ID: d.ID, TipID: d.TipID, UserID: d.UserID, Body: d.Body, CreatedAt: d.CreatedAt}, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, token, conversationID, body string) (*model.Message, error) {
	var resp messageResponse
	req := sendMessageRequest{ConversationID: conversationID, Body: body}
	if err := c.call(ctx, http.MethodPost, "/client/sendMessage", token, req, &resp); err != nil {
		return nil, err
	}
	d := resp.Data
	return &model.Message{ID: d.ID, ConversationID: d.ConversationID, SenderID: d.SenderID, Body: d.Body, CreatedAt: d.CreatedAt}, nil
}

// CreateMessage opens a conversation with recipientID carrying a first message.
func (c *HTTPClient) CreateMessage(ctx context.Context, token, recipientID, body string) (*model.Conversation, error) {
	var resp conversationResponse
	req := createMessageRequest{RecipientID: recipientID, Body: body}
	if err := c.call(ctx, http.MethodPost, "/client/createMessage", token, req, &resp); err != nil {
		return nil, err
	}
	return &model.Conversation{ID: resp.Data.ID, Participants: resp.Data.Participants}, nil
}

func (c *HTTPClient) EditProfile(ctx context.Context, token string, update model.ProfileUpdate) (*model.User, error) {
	req := editProfileRequest{Username: update.Username, Bio: update.Bio, Phone: update.Phone}
	var resp userResponse
	if err := c.call(ctx, http.MethodPost, "/client/editProfile", token, req, &resp); err != nil {
		return nil, err
	}
	return resp.Data.toModel(), nil
}

func (c *HTTPClient) UpdatePricing(ctx context.Context, token string, pricing model.SubscriptionPricing) error {
	req := pricingDTO{Weekly: pricing.Weekly, Monthly: pricing.Monthly}
	return c.call(ctx, http.MethodPost, "/client/pricing", token, req, nil)
}

func (c *HTTPClient) ChangeRole(ctx context.Context, token string, role model.Role) error {
	return c.call(ctx, http.MethodPost, "/client/changeRole", token, changeRoleRequest{Role: string(role)}, nil)
}
