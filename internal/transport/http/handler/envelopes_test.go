package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/student-election-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("voter: %w", domain.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{domain.ErrBlocked, http.StatusForbidden, CodeBlocked},
		{domain.ErrAlreadyVoted, http.StatusConflict, CodeAlreadyVoted},
		{domain.ErrMismatch, http.StatusUnauthorized, CodeMismatch},
		{domain.ErrUnauthorized, http.StatusUnauthorized, CodeAuth},
		{domain.ErrForbidden, http.StatusForbidden, CodeForbidden},
		{domain.ErrConflict, http.StatusConflict, CodeConflict},
		{domain.ErrBadRequest, http.StatusBadRequest, CodeBadRequest},
		{errors.New("dynamodb: throttled"), http.StatusInternalServerError, CodeStore},
	}
	for _, tc := range cases {
		status, code := classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestWriteServiceError_HidesStoreDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/positions", nil)
	writeServiceError(rr, r, errors.New("dynamodb: connection refused on 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decodeEnvelope(t, rr, nil)
	assert.False(t, env.Success)
	assert.Equal(t, CodeStore, env.Code)
	assert.NotContains(t, env.Message, "10.0.0.5")
}

func TestOperatorActor_MissingClaims(t *testing.T) {
	rr := httptest.NewRecorder()
	_, ok := operatorActor(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
