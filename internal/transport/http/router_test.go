package http

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/student-election-api/internal/application/audit"
	"github.com/student-election-api/internal/config"
	"github.com/student-election-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/student-election-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires real handlers over repositories without a client, so
// only requests rejected before any store access may be sent through it.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	sink := audit.NewSink(dynamo.NewAuditLogRepo(nil, "audit_logs"), 1)
	t.Cleanup(func() { _ = sink.Close(context.Background()) })

	cfg := &config.Config{AllowedOrigins: []string{"*"}, OTPTTL: time.Minute}
	return NewRouter(cfg, &Deps{
		JWTProvider: jwtinfra.NewProviderFromKeys(key, &key.PublicKey, time.Hour),
		Audit:       sink,
	})
}

func TestRouter_HealthCheck(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health-check/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pong")
}

func TestRouter_OperatorRoutesRequireBearer(t *testing.T) {
	router := newTestRouter(t)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/v1/sessions"},
		{http.MethodPost, "/v1/sessions/logout"},
		{http.MethodGet, "/v1/results"},
		{http.MethodGet, "/v1/results/report"},
		{http.MethodGet, "/v1/audit-logs"},
		{http.MethodGet, "/v1/audit-logs/stats"},
		{http.MethodGet, "/v1/voters"},
		{http.MethodPut, "/v1/voters/status"},
		{http.MethodPost, "/v1/positions"},
		{http.MethodPut, "/v1/positions/p1"},
		{http.MethodPut, "/v1/positions/p1/status"},
		{http.MethodPost, "/v1/candidates"},
		{http.MethodPut, "/v1/candidates/c1/status"},
		{http.MethodPost, "/v1/candidates/c1/photo"},
	}
	for _, rt := range routes {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(rt.method, rt.path, strings.NewReader("{}")))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, rt.method+" "+rt.path)
	}
}

func TestRouter_BallotRequiresVoterToken(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ballots", strings.NewReader(`{"selections":{"p":"c"}}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "AUTH_ERROR")
}

func TestRouter_OTPValidationBeforeStore(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/voters/otp/request", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRouter_CORSAllowsVoterToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/v1/ballots", nil)
	req.Header.Set("Origin", "https://vote.example.edu")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Voter-Token")
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, req)
	assert.Contains(t, strings.ToLower(rr.Header().Get("Access-Control-Allow-Headers")), "x-voter-token")
}
