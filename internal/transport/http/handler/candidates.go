package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/student-election-api/internal/application/election"
	"github.com/student-election-api/internal/domain"
)

// maxPhotoBytes bounds the multipart body of a photo upload.
const maxPhotoBytes = 5 << 20

type CandidateHandler struct {
	svc election.Service
}

func NewCandidateHandler(svc election.Service) *CandidateHandler { return &CandidateHandler{svc: svc} }

func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	var positionID *string
	if v := r.URL.Query().Get("position_id"); v != "" {
		positionID = &v
	}
	candidates, err := h.svc.GetCandidates(r.Context(), positionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	writeOK(w, http.StatusOK, "", candidates)
}

func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := operatorActor(w, r)
	if !ok {
		return
	}
	var req domain.CreateCandidateRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.CreateCandidate(r.Context(), actor, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "candidate created", c)
}

func (h *CandidateHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := operatorActor(w, r)
	if !ok {
		return
	}
	var req domain.CandidateStatusRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateCandidateStatus(r.Context(), actor, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "candidate status updated", c)
}

// UploadPhoto accepts a multipart form with the image in the "photo" field.
func (h *CandidateHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	actor, ok := operatorActor(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid or oversized multipart body")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "photo field is required")
		return
	}
	defer file.Close()

	c, err := h.svc.UploadCandidatePhoto(r.Context(), actor, chi.URLParam(r, "id"), file,
		header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "photo uploaded", c)
}
