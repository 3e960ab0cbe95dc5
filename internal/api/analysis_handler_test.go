package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econova/nova-api/internal/agent"
	"github.com/econova/nova-api/internal/api/shared"
	"github.com/econova/nova-api/internal/config"
	"github.com/econova/nova-api/internal/nova"
)

// stubAgent answers instantly, or blocks until released.
type stubAgent struct {
	answer string
	block  chan struct{}
}

func (s *stubAgent) IsConfigured() bool { return true }

func (s *stubAgent) Chat(ctx context.Context, prompt string, cc agent.ChatContext) (*agent.Result, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &agent.Result{Answer: s.answer}, nil
}

type handlerFixture struct {
	router       http.Handler
	orchestrator *nova.Orchestrator
	userID       uuid.UUID
}

func setupHandler(t *testing.T, ag agent.Agent, salesCeiling int) *handlerFixture {
	t.Helper()

	cfg := config.AnalysisConfig{
		MaxConcurrentSales:    salesCeiling,
		MaxConcurrentDocument: 10,
		MaxConcurrentVoucher:  5,
		StoreMaxEntries:       1000,
		ResultMaxBytes:        500 * 1024,
		ReapInterval:          30 * time.Minute,
		RetentionWindow:       30 * time.Minute,
		MaxSummaryChars:       5000,
		MaxFieldChars:         500,
		MaxFileNameChars:      200,
		ChatTimeout:           time.Second,
	}
	store := nova.NewMemoryStore(cfg.StoreMaxEntries)
	limiter := nova.NewLimiter(map[string]int{
		nova.FamilySalesUpload: cfg.MaxConcurrentSales,
		nova.FamilyDocument:    cfg.MaxConcurrentDocument,
		nova.FamilyVoucher:     cfg.MaxConcurrentVoucher,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orchestrator := nova.NewOrchestrator(store, limiter, ag, cfg, logger)
	handler := NewAnalysisHandler(orchestrator, logger)

	fixture := &handlerFixture{orchestrator: orchestrator, userID: uuid.New()}

	r := chi.NewRouter()
	r.Route("/api/nova", func(r chi.Router) {
		r.Post("/analysis/sales", handler.SubmitSalesAnalysis)
		r.Post("/analysis/documents", handler.SubmitDocumentAnalysis)
		r.Post("/analysis/vouchers", handler.SubmitVoucherAnalysis)
		r.Get("/analysis/{id}", handler.GetAnalysis)
	})
	fixture.router = r
	return fixture
}

// doAs performs a request with the given caller identity injected the way
// the auth middleware would.
func (f *handlerFixture) doAs(t *testing.T, userID uuid.UUID, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func salesBody() SalesAnalysisRequest {
	return SalesAnalysisRequest{Summary: "ventas de agosto", RowCount: 12}
}

func TestSubmitSalesAnalysisAccepted(t *testing.T) {
	f := setupHandler(t, &stubAgent{answer: "ok"}, 10)

	rec := f.doAs(t, f.userID, http.MethodPost, "/api/nova/analysis/sales", salesBody())
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp SubmitAnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.AnalysisID, "nova-"))

	f.orchestrator.Wait()
}

func TestSubmitThenPollLifecycle(t *testing.T) {
	ag := &stubAgent{answer: "Resumen listo", block: make(chan struct{})}
	f := setupHandler(t, ag, 10)

	rec := f.doAs(t, f.userID, http.MethodPost, "/api/nova/analysis/sales", salesBody())
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp SubmitAnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Immediately after submission the record polls as processing.
	poll := f.doAs(t, f.userID, http.MethodGet, "/api/nova/analysis/"+resp.AnalysisID, nil)
	require.Equal(t, http.StatusOK, poll.Code)
	var result nova.Result
	require.NoError(t, json.Unmarshal(poll.Body.Bytes(), &result))
	assert.Equal(t, nova.StatusProcessing, result.Status)

	close(ag.block)
	f.orchestrator.Wait()

	poll = f.doAs(t, f.userID, http.MethodGet, "/api/nova/analysis/"+resp.AnalysisID, nil)
	require.Equal(t, http.StatusOK, poll.Code)
	require.NoError(t, json.Unmarshal(poll.Body.Bytes(), &result))
	assert.Equal(t, nova.StatusCompleted, result.Status)
	assert.Equal(t, "Resumen listo", result.Answer)
}

func TestGetAnalysisUnknownIDReturnsNotFound(t *testing.T) {
	f := setupHandler(t, &stubAgent{answer: "ok"}, 10)

	rec := f.doAs(t, f.userID, http.MethodGet, "/api/nova/analysis/nova-missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestGetAnalysisOtherOwnerForbidden(t *testing.T) {
	f := setupHandler(t, &stubAgent{answer: "ok"}, 10)

	rec := f.doAs(t, f.userID, http.MethodPost, "/api/nova/analysis/sales", salesBody())
	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp SubmitAnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	f.orchestrator.Wait()

	other := uuid.New()
	poll := f.doAs(t, other, http.MethodGet, "/api/nova/analysis/"+resp.AnalysisID, nil)
	assert.Equal(t, http.StatusForbidden, poll.Code)
}

func TestSubmitAtCeilingReturnsTooManyRequests(t *testing.T) {
	ag := &stubAgent{answer: "ok", block: make(chan struct{})}
	f := setupHandler(t, ag, 1)

	rec := f.doAs(t, f.userID, http.MethodPost, "/api/nova/analysis/sales", salesBody())
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = f.doAs(t, f.userID, http.MethodPost, "/api/nova/analysis/sales", salesBody())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "Demasiados analisis")

	close(ag.block)
	f.orchestrator.Wait()
}

func TestSubmitWithoutIdentityUnauthorized(t *testing.T) {
	f := setupHandler(t, &stubAgent{answer: "ok"}, 10)

	rec := f.doAs(t, uuid.Nil, http.MethodPost, "/api/nova/analysis/sales", salesBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitInvalidBodyRejected(t *testing.T) {
	f := setupHandler(t, &stubAgent{answer: "ok"}, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/nova/analysis/sales",
		strings.NewReader("{not json"))
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, f.userID)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitDocumentAnalysisAccepted(t *testing.T) {
	f := setupHandler(t, &stubAgent{answer: "ok"}, 10)

	body := DocumentAnalysisRequest{
		FileName: "factura-01.pdf",
		Fields:   map[string]string{"amount": "18500.00"},
	}
	rec := f.doAs(t, f.userID, http.MethodPost, "/api/nova/analysis/documents", body)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = f.doAs(t, f.userID, http.MethodPost, "/api/nova/analysis/vouchers", body)
	require.Equal(t, http.StatusAccepted, rec.Code)

	f.orchestrator.Wait()
}

func TestSubmitDocumentMissingFieldsRejected(t *testing.T) {
	f := setupHandler(t, &stubAgent{answer: "ok"}, 10)

	rec := f.doAs(t, f.userID, http.MethodPost, "/api/nova/analysis/documents",
		DocumentAnalysisRequest{FileName: "factura.pdf"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
