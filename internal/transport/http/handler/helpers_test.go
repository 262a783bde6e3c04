package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/student-election-api/internal/domain"
	jwtinfra "github.com/student-election-api/internal/infrastructure/jwt"
	"github.com/student-election-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/require"
)

func jsonReq(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(method, target, bytes.NewReader(b))
}

// asOperator puts operator claims on the request as Auth would.
func asOperator(r *http.Request, email, role string) *http.Request {
	claims := &jwtinfra.Claims{OperatorEmail: email, Role: role, SessionID: "sess1"}
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

func asAdmin(r *http.Request) *http.Request {
	return asOperator(r, "admin@example.edu", domain.RoleAdmin)
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) Envelope {
	t.Helper()
	var raw struct {
		Envelope
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if data != nil {
		require.NotEmpty(t, raw.Data, "response carries no data")
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Envelope
}
