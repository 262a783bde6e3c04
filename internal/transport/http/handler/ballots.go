package handler

import (
	"net/http"

	"github.com/student-election-api/internal/application/ballot"
	"github.com/student-election-api/internal/domain"
	"github.com/student-election-api/internal/transport/http/middleware"
)

type BallotHandler struct {
	svc ballot.Service
}

func NewBallotHandler(svc ballot.Service) *BallotHandler { return &BallotHandler{svc: svc} }

func (h *BallotHandler) Cast(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.VoterTokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeAuth, "missing voter token")
		return
	}
	var req domain.CastBallotRequest
	if !decode(w, r, &req) {
		return
	}
	receipt, err := h.svc.Cast(r.Context(), token, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "ballot recorded", receipt)
}
