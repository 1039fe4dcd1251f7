package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/server/http/dto"
)

// MarketHandler serves marketplace reads and mutations for either role.
type MarketHandler struct {
	facade MarketFacade
}

// NewMarketHandler constructs MarketHandler.
func NewMarketHandler(facade MarketFacade) *MarketHandler {
	return &MarketHandler{facade: facade}
}

// Punters handles GET /api/market/punters.
func (h *MarketHandler) Punters(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	punters, err := h.facade.Punters(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	resp := make([]dto.PunterResponse, 0, len(punters))
	for _, p := range punters {
		resp = append(resp, dto.PunterResponse{
			ID:          p.ID,
			Username:    p.Username,
			Bio:         p.Bio,
			Subscribers: p.Subscribers,
			WinRate:     p.WinRate,
			Weekly:      p.Pricing.Weekly,
			Monthly:     p.Pricing.Monthly,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Daily handles GET /api/market/daily.
func (h *MarketHandler) Daily(c *gin.Context) {
	h.listTips(c, h.facade.Daily)
}

// Feed handles GET /api/market/feed.
func (h *MarketHandler) Feed(c *gin.Context) {
	h.listTips(c, h.facade.Feed)
}

func (h *MarketHandler) listTips(c *gin.Context, list func(ctx context.Context, sess *model.Session) ([]model.Tip, error)) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	tips, err := list(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	resp := make([]dto.TipResponse, 0, len(tips))
	for i := range tips {
		resp = append(resp, toTipResponse(&tips[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// BuyTip handles POST /api/market/tips/:id/buy.
func (h *MarketHandler) BuyTip(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	tip, err := h.facade.BuyTip(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.JSON(http.StatusOK, toTipResponse(tip))
}

// CreateTip handles POST /api/market/tips.
func (h *MarketHandler) CreateTip(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req dto.TipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tip, err := h.facade.CreateTip(c.Request.Context(), sess, model.Tip{
		Title:   req.Title,
		Content: req.Content,
		Odds:    req.Odds,
		Price:   req.Price,
	})
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.JSON(http.StatusCreated, toTipResponse(tip))
}

// CreateSignal handles POST /api/market/signals.
func (h *MarketHandler) CreateSignal(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req dto.SignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tip, err := h.facade.CreateSignal(c.Request.Context(), sess, model.Tip{
		Title:      req.Title,
		Pair:       req.Pair,
		Entry:      req.Entry,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Price:      req.Price,
	})
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.JSON(http.StatusCreated, toTipResponse(tip))
}

// Comment handles POST /api/market/comments.
func (h *MarketHandler) Comment(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	comment, err := h.facade.Comment(c.Request.Context(), sess, req.TipID, req.Body)
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.JSON(http.StatusCreated, dto.CommentResponse{
		ID:        comment.ID,
		TipID:     comment.TipID,
		UserID:    comment.UserID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	})
}

// SendMessage handles POST /api/market/messages.
func (h *MarketHandler) SendMessage(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.facade.SendMessage(c.Request.Context(), sess, req.ConversationID, req.Body)
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.JSON(http.StatusCreated, dto.MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Body:           msg.Body,
		CreatedAt:      msg.CreatedAt,
	})
}

// CreateConversation handles POST /api/market/conversations.
func (h *MarketHandler) CreateConversation(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req dto.ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	conv, err := h.facade.CreateMessage(c.Request.Context(), sess, req.RecipientID, req.Body)
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.JSON(http.StatusCreated, dto.ConversationResponse{ID: conv.ID, Participants: conv.Participants})
}

// EditProfile handles PUT /api/profile.
func (h *MarketHandler) EditProfile(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.facade.EditProfile(c.Request.Context(), sess, model.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdatePricing handles PUT /api/profile/pricing.
func (h *MarketHandler) UpdatePricing(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req dto.PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	err := h.facade.UpdatePricing(c.Request.Context(), sess, model.SubscriptionPricing{Weekly: req.Weekly, Monthly: req.Monthly})
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.Status(http.StatusNoContent)
}

func toTipResponse(t *model.Tip) dto.TipResponse {
	resp := dto.TipResponse{
		ID:        t.ID,
		PunterID:  t.PunterID,
		Kind:      string(t.Kind),
		Title:     t.Title,
		Content:   t.Content,
		Price:     t.Price,
		Pair:      t.Pair,
		Locked:    t.Locked,
		CreatedAt: t.CreatedAt,
	}
	if t.Kind == model.TipKindSignal {
		resp.Entry = decimalPtr(t.Entry)
		resp.StopLoss = decimalPtr(t.StopLoss)
		resp.TakeProfit = decimalPtr(t.TakeProfit)
	} else {
		resp.Odds = decimalPtr(t.Odds)
	}
	return resp
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
