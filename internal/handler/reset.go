package handler

import (
	"errors"
	"net/http"

	"github.com/inkpost/inkpost-go/internal/model"
	"github.com/inkpost/inkpost-go/internal/service"
)

// ResetHandler handles HTTP requests for the password-reset flow.
type ResetHandler struct {
	service *service.ResetService
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(svc *service.ResetService) *ResetHandler {
	return &ResetHandler{service: svc}
}

// HandleForgotPassword handles POST /api/v1/auth/forgot-password requests.
func (h *ResetHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.RequestReset(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrResetUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrMailDelivery):
			writeJSON(w, http.StatusBadGateway, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("password reset link has been sent to your email"))
}

// HandleResetPassword handles POST /api/v1/auth/reset-password requests.
func (h *ResetHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.service.ConsumeReset(r.Context(), req.Token, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrPasswordMismatch), errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("password reset successfully"))
}
