package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/student-election-api/internal/application/election"
	"github.com/student-election-api/internal/domain"
)

// PositionHandler serves election positions. Reads are public; writes are
// mounted behind the ADMIN role.
type PositionHandler struct {
	svc election.Service
}

func NewPositionHandler(svc election.Service) *PositionHandler { return &PositionHandler{svc: svc} }

func (h *PositionHandler) List(w http.ResponseWriter, r *http.Request) {
	positions, err := h.svc.GetPositions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if positions == nil {
		positions = []domain.Position{}
	}
	writeOK(w, http.StatusOK, "", positions)
}

func (h *PositionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := operatorActor(w, r)
	if !ok {
		return
	}
	var req domain.CreatePositionRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.CreatePosition(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "position created", p)
}

func (h *PositionHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := operatorActor(w, r)
	if !ok {
		return
	}
	var req domain.UpdatePositionRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.UpdatePositionDetails(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "position updated", p)
}

func (h *PositionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := operatorActor(w, r)
	if !ok {
		return
	}
	var req domain.PositionStatusRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.UpdatePositionStatus(r.Context(), actor, chi.URLParam(r, "id"), req.Action)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "position status updated", p)
}
