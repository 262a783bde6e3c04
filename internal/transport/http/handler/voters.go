package handler

import (
	"net/http"

	"github.com/student-election-api/internal/application/voter"
	"github.com/student-election-api/internal/domain"
)

type VoterHandler struct {
	svc voter.Service
}

func NewVoterHandler(svc voter.Service) *VoterHandler { return &VoterHandler{svc: svc} }

func (h *VoterHandler) List(w http.ResponseWriter, r *http.Request) {
	voters, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if voters == nil {
		voters = []domain.Voter{}
	}
	writeOK(w, http.StatusOK, "", voters)
}

func (h *VoterHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := operatorActor(w, r)
	if !ok {
		return
	}
	var req domain.VoterStatusRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.SetStatus(r.Context(), actor, req.RegistrationNumber, req.Action); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "voter status updated", nil)
}
