package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ctacte/internal/adapter/http/dto"
	"github.com/iho/ctacte/internal/usecase"
)

// ConfirmationService defines the behavior needed by ConfirmationHandler.
type ConfirmationService interface {
	ConfirmOrder(ctx context.Context, input usecase.ConfirmOrderInput) (*usecase.ConfirmationResult, error)
	AmendConfirmation(ctx context.Context, input usecase.AmendConfirmationInput) (*usecase.ConfirmationResult, error)
}

// ConfirmationHandler handles order confirmation requests.
type ConfirmationHandler struct {
	confirmationUC ConfirmationService
}

// NewConfirmationHandler creates a new ConfirmationHandler.
func NewConfirmationHandler(confirmationUC ConfirmationService) *ConfirmationHandler {
	return &ConfirmationHandler{confirmationUC: confirmationUC}
}

// Confirm prices an order and posts it to the customer's account.
func (h *ConfirmationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.confirmationUC.ConfirmOrder(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, "failed to confirm order", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ConfirmationFromResult(result))
}

// Amend changes the customer, price or note of a confirmed order.
func (h *ConfirmationHandler) Amend(w http.ResponseWriter, r *http.Request) {
	var req dto.AmendConfirmationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.confirmationUC.AmendConfirmation(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, "failed to amend confirmation", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConfirmationFromResult(result))
}
