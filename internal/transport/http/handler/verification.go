package handler

import (
	"net/http"

	"github.com/student-election-api/internal/application/verification"
	"github.com/student-election-api/internal/domain"
)

// VerificationHandler exposes the voter PIN flow.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.RequestOTPInput
	if !decode(w, r, &req) {
		return
	}
	issued, err := h.svc.RequestOTP(r.Context(), req.RegistrationNumber)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "a verification PIN has been issued", issued)
}

func (h *VerificationHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPInput
	if !decode(w, r, &req) {
		return
	}
	verified, err := h.svc.VerifyOTP(r.Context(), req.RegistrationNumber, req.PIN)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "voter verified", verified)
}
