package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/student-election-api/internal/application/audit"
	"github.com/student-election-api/internal/domain"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

type auditReader interface {
	List(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	Stats() audit.Stats
}

type AuditHandler struct {
	sink auditReader
}

func NewAuditHandler(sink auditReader) *AuditHandler { return &AuditHandler{sink: sink} }

// List returns the newest entries first. ?limit= is clamped to [1, 500].
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.sink.List(r.Context(), parseLimit(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	writeOK(w, http.StatusOK, "", entries)
}

func (h *AuditHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, http.StatusOK, "", h.sink.Stats())
}

func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		return defaultAuditLimit
	}
	if limit > maxAuditLimit {
		return maxAuditLimit
	}
	return limit
}
