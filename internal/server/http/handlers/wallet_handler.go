package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/server/http/dto"
)

// WalletHandler serves the coin catalog and the deposit flow.
type WalletHandler struct {
	facade WalletFacade
}

// NewWalletHandler constructs WalletHandler.
func NewWalletHandler(facade WalletFacade) *WalletHandler {
	return &WalletHandler{facade: facade}
}

// Packages handles GET /api/wallet/packages.
func (h *WalletHandler) Packages(c *gin.Context) {
	catalog := h.facade.Packages()
	resp := make([]dto.PackageResponse, 0, len(catalog))
	for i, p := range catalog {
		resp = append(resp, dto.PackageResponse{
			Index:      i,
			Coins:      p.CoinCount,
			BonusCoins: p.BonusCoins,
			Price:      p.Price.StringFixed(2),
			Featured:   p.Featured,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Preview handles GET /api/wallet/pricing?selection=&amount=. It never
// fails; unusable input prices at zero.
func (h *WalletHandler) Preview(c *gin.Context) {
	selection, err := strconv.Atoi(c.Query("selection"))
	if err != nil {
		selection = model.CustomSelection
	}
	c.JSON(http.StatusOK, toPricingResponse(h.facade.Preview(selection, c.Query("amount"))))
}

// Banks handles GET /api/wallet/banks.
func (h *WalletHandler) Banks(c *gin.Context) {
	banks, err := h.facade.Banks(c.Request.Context())
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	resp := make([]dto.BankResponse, 0, len(banks))
	for _, b := range banks {
		resp = append(resp, dto.BankResponse{Code: b.Code, Name: b.Name})
	}
	c.JSON(http.StatusOK, resp)
}

// Initiate handles POST /api/wallet/deposits.
func (h *WalletHandler) Initiate(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Selection == nil {
		respondError(c, domainErrors.Validation(domainErrors.MsgSelectPackage), domainErrors.MsgDepositFailed)
		return
	}

	checkout, err := h.facade.InitiateDeposit(c.Request.Context(), sess, *req.Selection, req.Amount)
	if err != nil {
		respondError(c, err, domainErrors.MsgDepositFailed)
		return
	}
	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		Reference:        checkout.Reference,
		AuthorizationURL: checkout.AuthorizationURL,
		AccessCode:       checkout.AccessCode,
		PublicKey:        checkout.PublicKey,
		Email:            checkout.Email,
		Amount:           checkout.Amount,
		Currency:         model.Currency,
	})
}

// Complete handles POST /api/wallet/deposits/:reference/complete.
func (h *WalletHandler) Complete(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	receipt, user, err := h.facade.CompleteDeposit(c.Request.Context(), sess, c.Param("reference"))
	if err != nil {
		respondError(c, err, domainErrors.MsgDepositFailed)
		return
	}
	c.JSON(http.StatusOK, dto.DepositReceiptResponse{
		Reference:    receipt.Reference,
		Coins:        receipt.Coins,
		CloseAfterMs: receipt.CloseAfter.Milliseconds(),
		User:         toUserResponse(user),
	})
}

// Cancel handles POST /api/wallet/deposits/:reference/cancel.
func (h *WalletHandler) Cancel(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	if err := h.facade.CancelDeposit(c.Request.Context(), sess, c.Param("reference")); err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.Status(http.StatusNoContent)
}

func toPricingResponse(p model.PricingResult) dto.PricingResponse {
	return dto.PricingResponse{
		TotalCoins:       p.TotalCoins,
		BaseCoins:        p.BaseCoins,
		BonusCoins:       p.BonusCoins,
		DisplayPrice:     p.DisplayPrice,
		TransactionPrice: p.TransactionPrice,
		Currency:         p.Currency,
		GatewayAmount:    p.GatewayAmount,
	}
}
