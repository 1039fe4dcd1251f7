package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/server/http/dto"
)

// WithdrawalHandler manages the withdrawal form.
type WithdrawalHandler struct {
	facade WithdrawalFacade
}

// NewWithdrawalHandler constructs WithdrawalHandler.
func NewWithdrawalHandler(facade WithdrawalFacade) *WithdrawalHandler {
	return &WithdrawalHandler{facade: facade}
}

// Draft handles GET /api/wallet/withdrawal.
func (h *WithdrawalHandler) Draft(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	draft, err := h.facade.WithdrawalDraft(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

// Edit handles PATCH /api/wallet/withdrawal.
func (h *WithdrawalHandler) Edit(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req dto.WithdrawalEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	draft, err := h.facade.EditWithdrawal(c.Request.Context(), sess, model.WithdrawalEdit{
		Amount:        req.Amount,
		BankCode:      req.BankCode,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

// Resolve handles POST /api/wallet/withdrawal/resolve.
func (h *WithdrawalHandler) Resolve(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	draft, err := h.facade.ResolveAccount(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, domainErrors.MsgVerifyFailed)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

// Submit handles POST /api/wallet/withdrawal/submit.
func (h *WithdrawalHandler) Submit(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	receipt, err := h.facade.SubmitWithdrawal(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, domainErrors.MsgWithdrawalFailed)
		return
	}
	c.JSON(http.StatusOK, dto.WithdrawalReceiptResponse{
		Balance:      receipt.NewBalance.String(),
		Currency:     model.Currency,
		CloseAfterMs: receipt.CloseAfter.Milliseconds(),
	})
}

// Discard handles DELETE /api/wallet/withdrawal.
func (h *WithdrawalHandler) Discard(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	if err := h.facade.DiscardWithdrawal(c.Request.Context(), sess); err != nil {
		respondError(c, err, domainErrors.MsgGeneric)
		return
	}
	c.Status(http.StatusNoContent)
}

func toDraftResponse(d *model.WithdrawalDraft) dto.WithdrawalDraftResponse {
	resp := dto.WithdrawalDraftResponse{
		Amount:        d.Amount,
		BankCode:      d.BankCode,
		BankName:      d.BankName,
		AccountNumber: d.AccountNumber,
		Verified:      d.ResolutionMatches(),
		State:         string(d.State),
		Error:         d.LastError,
	}
	if resp.Verified {
		resp.AccountName = d.ResolvedAccountName
	}
	return resp
}
