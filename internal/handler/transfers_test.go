package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/dto"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/engine"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/handler"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/middleware"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/service"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubTransferSvc returns a fixed response or error per call; the handler
// tests only exercise the wire contract, not the state machine.
type stubTransferSvc struct {
	resp  *dto.TransferResponse
	list  []dto.TransferResponse
	total int64
	err   error
}

func (s *stubTransferSvc) Create(context.Context, uuid.UUID, uuid.UUID, dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	return s.resp, s.err
}

func (s *stubTransferSvc) Get(context.Context, uuid.UUID, uuid.UUID) (*dto.TransferResponse, error) {
	return s.resp, s.err
}

func (s *stubTransferSvc) List(context.Context, uuid.UUID, dto.TransferFilter) ([]dto.TransferResponse, int64, error) {
	return s.list, s.total, s.err
}

func (s *stubTransferSvc) ListAudits(context.Context, uuid.UUID, uuid.UUID) ([]dto.TransferAuditResponse, error) {
	return nil, s.err
}

func (s *stubTransferSvc) Approve(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, service.TransitionInput) (*dto.TransferResponse, error) {
	return s.resp, s.err
}

func (s *stubTransferSvc) Reject(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, service.TransitionInput) (*dto.TransferResponse, error) {
	return s.resp, s.err
}

func (s *stubTransferSvc) Ship(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, service.TransitionInput) (*dto.TransferResponse, error) {
	return s.resp, s.err
}

func (s *stubTransferSvc) Receive(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, service.TransitionInput) (*dto.TransferResponse, error) {
	return s.resp, s.err
}

func (s *stubTransferSvc) Cancel(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, service.TransitionInput) (*dto.TransferResponse, error) {
	return s.resp, s.err
}

var _ service.TransferService = (*stubTransferSvc)(nil)

// ── Fixtures ─────────────────────────────────────────────────────────────────

func newTransferRouter(svc service.TransferService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Inject claims the way the auth middleware would
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{
			UserID:   uuid.NewString(),
			TenantID: uuid.NewString(),
			Role:     "manager",
		})
		c.Next()
	})
	h := handler.NewTransfersHandler(svc)
	r.POST("/v1/transfers", h.Create)
	r.GET("/v1/transfers", h.List)
	r.GET("/v1/transfers/:id", h.Get)
	r.POST("/v1/transfers/:id/cancel", h.Cancel)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, dto.TransferEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope dto.TransferEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCancelUnknownTransferEnvelope(t *testing.T) {
	r := newTransferRouter(&stubTransferSvc{err: engine.NewNotFoundError("Transfer not found")})

	w, envelope := doJSON(t, r, http.MethodPost, "/v1/transfers/"+uuid.NewString()+"/cancel",
		dto.TransitionRequest{Reason: "no longer needed"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Transfer not found", envelope.Error)
	assert.Equal(t, "The requested transfer does not exist or you do not have access to it", envelope.Message)
}

func TestCancelShippedTransferEnvelope(t *testing.T) {
	r := newTransferRouter(&stubTransferSvc{err: engine.NewValidationError("Cannot cancel transfer in SHIPPED status")})

	w, envelope := doJSON(t, r, http.MethodPost, "/v1/transfers/"+uuid.NewString()+"/cancel",
		dto.TransitionRequest{Reason: "too late"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Failed to cancel transfer", envelope.Error)
	assert.Equal(t, "Cannot cancel transfer in SHIPPED status", envelope.Message)
}

func TestCrossTenantGetLooksAbsent(t *testing.T) {
	r := newTransferRouter(&stubTransferSvc{err: engine.NewAuthorizationError("transfer belongs to a different tenant")})

	req := httptest.NewRequest(http.MethodGet, "/v1/transfers/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope dto.TransferEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Transfer not found", envelope.Error)
}

func TestMalformedTransferIDLooksAbsent(t *testing.T) {
	r := newTransferRouter(&stubTransferSvc{})

	req := httptest.NewRequest(http.MethodGet, "/v1/transfers/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope dto.TransferEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Transfer not found", envelope.Error)
}

func TestCancelTransferSuccessEnvelope(t *testing.T) {
	resp := &dto.TransferResponse{
		ID:     uuid.NewString(),
		Status: "CANCELLED",
	}
	r := newTransferRouter(&stubTransferSvc{resp: resp})

	w, envelope := doJSON(t, r, http.MethodPost, "/v1/transfers/"+uuid.NewString()+"/cancel",
		dto.TransitionRequest{Reason: "no longer needed"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Data)
	assert.Equal(t, "CANCELLED", envelope.Data.Status)
	assert.Equal(t, "Transfer cancelled successfully", envelope.Message)
}

func TestListTransfersEnvelopeCarriesPagination(t *testing.T) {
	r := newTransferRouter(&stubTransferSvc{
		list: []dto.TransferResponse{
			{ID: uuid.NewString(), Status: "REQUESTED"},
			{ID: uuid.NewString(), Status: "APPROVED"},
		},
		total: 7,
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/transfers?page=2&limit=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope dto.TransferListEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envelope.Success)
	assert.Len(t, envelope.Data, 2)
	assert.Equal(t, int64(7), envelope.Total)
	assert.Equal(t, 2, envelope.Page)
	assert.Equal(t, 2, envelope.Limit)
}

func TestCreateTransferEnvelope(t *testing.T) {
	resp := &dto.TransferResponse{
		ID:       uuid.NewString(),
		Status:   "REQUESTED",
		Priority: "NORMAL",
		Quantity: 10,
	}
	r := newTransferRouter(&stubTransferSvc{resp: resp})

	w, envelope := doJSON(t, r, http.MethodPost, "/v1/transfers", dto.CreateTransferRequest{
		FromLocationID: uuid.NewString(),
		ToLocationID:   uuid.NewString(),
		ProductID:      uuid.NewString(),
		Quantity:       10,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Data)
	assert.Equal(t, "REQUESTED", envelope.Data.Status)
	assert.Equal(t, "Transfer requested", envelope.Message)
}
