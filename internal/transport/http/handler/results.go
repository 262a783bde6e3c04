package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/student-election-api/internal/application/results"
)

type ResultsHandler struct {
	svc results.Service
}

func NewResultsHandler(svc results.Service) *ResultsHandler { return &ResultsHandler{svc: svc} }

func (h *ResultsHandler) Tally(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Tally(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", t)
}

// Report renders the tally as a PDF. The document is buffered so a render
// failure still produces a JSON error instead of a truncated file.
func (h *ResultsHandler) Report(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.WriteReport(r.Context(), &buf); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="election-results.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
