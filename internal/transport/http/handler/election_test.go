package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/student-election-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockElectionSvc struct{ mock.Mock }

func (m *mockElectionSvc) GetPositions(ctx context.Context) ([]domain.Position, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]domain.Position)
	return ps, args.Error(1)
}

func (m *mockElectionSvc) CreatePosition(ctx context.Context, actor domain.Actor, req domain.CreatePositionRequest) (*domain.Position, error) {
	args := m.Called(ctx, actor, req)
	p, _ := args.Get(0).(*domain.Position)
	return p, args.Error(1)
}

func (m *mockElectionSvc) UpdatePositionStatus(ctx context.Context, actor domain.Actor, positionID, action string) (*domain.Position, error) {
	args := m.Called(ctx, actor, positionID, action)
	p, _ := args.Get(0).(*domain.Position)
	return p, args.Error(1)
}

func (m *mockElectionSvc) UpdatePositionDetails(ctx context.Context, actor domain.Actor, positionID string, req domain.UpdatePositionRequest) (*domain.Position, error) {
	args := m.Called(ctx, actor, positionID, req)
	p, _ := args.Get(0).(*domain.Position)
	return p, args.Error(1)
}

func (m *mockElectionSvc) GetCandidates(ctx context.Context, positionID *string) ([]domain.Candidate, error) {
	args := m.Called(ctx, positionID)
	cs, _ := args.Get(0).([]domain.Candidate)
	return cs, args.Error(1)
}

func (m *mockElectionSvc) CreateCandidate(ctx context.Context, actor domain.Actor, req domain.CreateCandidateRequest) (*domain.Candidate, error) {
	args := m.Called(ctx, actor, req)
	c, _ := args.Get(0).(*domain.Candidate)
	return c, args.Error(1)
}

func (m *mockElectionSvc) UpdateCandidateStatus(ctx context.Context, actor domain.Actor, candidateID string, status domain.CandidateStatus) (*domain.Candidate, error) {
	args := m.Called(ctx, actor, candidateID, status)
	c, _ := args.Get(0).(*domain.Candidate)
	return c, args.Error(1)
}

func (m *mockElectionSvc) UploadCandidatePhoto(ctx context.Context, actor domain.Actor, candidateID string, r io.Reader, filename, contentType string) (*domain.Candidate, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, actor, candidateID, string(body), filename, contentType)
	c, _ := args.Get(0).(*domain.Candidate)
	return c, args.Error(1)
}

var adminActor = domain.Actor{Type: domain.RoleAdmin, ID: "admin@example.edu"}

func TestListPositions_EmptyIsArray(t *testing.T) {
	svc := &mockElectionSvc{}
	svc.On("GetPositions", mock.Anything).Return(nil, nil)
	h := NewPositionHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/v1/positions", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"data":[]`)
}

func TestCreatePosition_ClosesBeforeOpens(t *testing.T) {
	h := NewPositionHandler(&mockElectionSvc{})
	now := time.Now()
	r := asAdmin(jsonReq(t, http.MethodPost, "/v1/positions", domain.CreatePositionRequest{
		Name: "Treasurer", Seats: 1, OpensAt: now, ClosesAt: now.Add(-time.Hour),
	}))
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCreatePosition_HappyPath(t *testing.T) {
	svc := &mockElectionSvc{}
	svc.On("CreatePosition", mock.Anything, adminActor, mock.AnythingOfType("domain.CreatePositionRequest")).
		Return(&domain.Position{PositionID: "p1", Name: "Treasurer"}, nil)
	h := NewPositionHandler(svc)

	now := time.Now().UTC()
	r := asAdmin(jsonReq(t, http.MethodPost, "/v1/positions", domain.CreatePositionRequest{
		Name: "Treasurer", Seats: 1, OpensAt: now, ClosesAt: now.Add(time.Hour),
	}))
	rr := httptest.NewRecorder()
	h.Create(rr, r)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var p domain.Position
	decodeEnvelope(t, rr, &p)
	assert.Equal(t, "p1", p.PositionID)
	svc.AssertExpectations(t)
}

func TestUpdatePositionStatus_BadAction(t *testing.T) {
	h := NewPositionHandler(&mockElectionSvc{})
	r := withChiID(asAdmin(jsonReq(t, http.MethodPut, "/v1/positions/p1/status", map[string]string{"action": "PAUSE"})), "p1")
	rr := httptest.NewRecorder()
	h.UpdateStatus(rr, r)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestUpdatePositionStatus_NotFound(t *testing.T) {
	svc := &mockElectionSvc{}
	svc.On("UpdatePositionStatus", mock.Anything, adminActor, "missing", domain.PositionActionClose).
		Return(nil, domain.ErrNotFound)
	h := NewPositionHandler(svc)

	r := withChiID(asAdmin(jsonReq(t, http.MethodPut, "/v1/positions/missing/status",
		domain.PositionStatusRequest{Action: domain.PositionActionClose})), "missing")
	rr := httptest.NewRecorder()
	h.UpdateStatus(rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	svc.AssertExpectations(t)
}

func TestUpdatePosition_PartialBody(t *testing.T) {
	svc := &mockElectionSvc{}
	svc.On("UpdatePositionDetails", mock.Anything, adminActor, "p1", mock.MatchedBy(func(req domain.UpdatePositionRequest) bool {
		return req.Name != nil && *req.Name == "Chair" && req.Seats == nil && req.OpensAt == nil
	})).Return(&domain.Position{PositionID: "p1", Name: "Chair"}, nil)
	h := NewPositionHandler(svc)

	r := withChiID(asAdmin(jsonReq(t, http.MethodPut, "/v1/positions/p1", map[string]string{"name": "Chair"})), "p1")
	rr := httptest.NewRecorder()
	h.Update(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestListCandidates_PositionFilter(t *testing.T) {
	svc := &mockElectionSvc{}
	svc.On("GetCandidates", mock.Anything, mock.MatchedBy(func(id *string) bool {
		return id != nil && *id == "pos-president"
	})).Return([]domain.Candidate{{CandidateID: "c1", PositionID: "pos-president"}}, nil)
	h := NewCandidateHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/v1/candidates?position_id=pos-president", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var cs []domain.Candidate
	decodeEnvelope(t, rr, &cs)
	require.Len(t, cs, 1)
	assert.Equal(t, "c1", cs[0].CandidateID)
	svc.AssertExpectations(t)
}

func TestListCandidates_NoFilter(t *testing.T) {
	svc := &mockElectionSvc{}
	svc.On("GetCandidates", mock.Anything, (*string)(nil)).Return([]domain.Candidate{}, nil)
	h := NewCandidateHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/v1/candidates", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestUpdateCandidateStatus_HappyPath(t *testing.T) {
	svc := &mockElectionSvc{}
	svc.On("UpdateCandidateStatus", mock.Anything, adminActor, "c1", domain.CandidateRejected).
		Return(&domain.Candidate{CandidateID: "c1", Status: domain.CandidateRejected}, nil)
	h := NewCandidateHandler(svc)

	r := withChiID(asAdmin(jsonReq(t, http.MethodPut, "/v1/candidates/c1/status",
		domain.CandidateStatusRequest{Status: domain.CandidateRejected})), "c1")
	rr := httptest.NewRecorder()
	h.UpdateStatus(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func photoRequest(t *testing.T, field string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="me.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/v1/candidates/c1/photo", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return withChiID(asAdmin(r), "c1")
}

func TestUploadPhoto_HappyPath(t *testing.T) {
	svc := &mockElectionSvc{}
	url := "https://bucket.example/candidates/c1/me.png"
	svc.On("UploadCandidatePhoto", mock.Anything, adminActor, "c1", "png-bytes", "me.png", "image/png").
		Return(&domain.Candidate{CandidateID: "c1", PhotoURL: &url}, nil)
	h := NewCandidateHandler(svc)

	rr := httptest.NewRecorder()
	h.UploadPhoto(rr, photoRequest(t, "photo"))

	assert.Equal(t, http.StatusOK, rr.Code)
	var c domain.Candidate
	decodeEnvelope(t, rr, &c)
	require.NotNil(t, c.PhotoURL)
	assert.Equal(t, url, *c.PhotoURL)
	svc.AssertExpectations(t)
}

func TestUploadPhoto_MissingField(t *testing.T) {
	h := NewCandidateHandler(&mockElectionSvc{})
	rr := httptest.NewRecorder()
	h.UploadPhoto(rr, photoRequest(t, "avatar"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
