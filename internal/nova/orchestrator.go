package nova

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/econova/nova-api/internal/agent"
	"github.com/econova/nova-api/internal/config"
	"github.com/econova/nova-api/internal/redact"
)

// User-facing messages. These are product copy and surface verbatim in API
// responses, so they stay in Spanish like the rest of the CRM.
var (
	// ErrTooManyAnalyses is returned by the submit operations when the
	// task family is at its concurrency ceiling.
	ErrTooManyAnalyses = errors.New("Demasiados analisis en curso. Intenta de nuevo mas tarde.")

	// ErrNotFound is returned when no record exists for an analysis id.
	ErrNotFound = errors.New("Analisis no encontrado o aun en proceso")

	// ErrForbidden is returned when the caller does not own the record.
	ErrForbidden = errors.New("No autorizado para acceder a este analisis")
)

const (
	msgSalesAnalysisFailed    = "Error al procesar el analisis automatico"
	msgDocumentAnalysisFailed = "Error al procesar el analisis de factura"
)

// Orchestrator accepts analysis requests, admits them against the per-family
// concurrency ceilings, and runs them on background goroutines. A submit
// call returns an analysis id within microseconds; the caller polls
// GetResult until the record reaches a terminal state.
type Orchestrator struct {
	store   ResultStore
	limiter *Limiter
	agent   agent.Agent
	cfg     config.AnalysisConfig
	logger  *slog.Logger

	// now is injectable for deterministic timestamps in tests.
	now func() time.Time

	wg sync.WaitGroup
}

// NewOrchestrator wires an Orchestrator from its collaborators. The store
// and limiter are shared across all task families.
func NewOrchestrator(
	store ResultStore,
	limiter *Limiter,
	ag agent.Agent,
	cfg config.AnalysisConfig,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:   store,
		limiter: limiter,
		agent:   ag,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// SubmitSalesUpload starts a background analysis of freshly uploaded sales
// data on behalf of owner. An empty owner leaves the result readable by any
// caller. Returns the analysis id, or ErrTooManyAnalyses when the
// sales-upload family is at its ceiling.
func (o *Orchestrator) SubmitSalesUpload(
	ctx context.Context,
	data SalesUploadData,
	owner string,
	companyID int,
) (string, error) {
	return o.submit(ctx, FamilySalesUpload, owner,
		func() string { return buildSalesPrompt(data, o.cfg.MaxSummaryChars) },
		agent.ChatContext{UserID: owner, CompanyID: companyID, PageContext: "sales"},
		msgSalesAnalysisFailed)
}

// SubmitDocument starts a background analysis of an uploaded document's
// extraction results.
func (o *Orchestrator) SubmitDocument(
	ctx context.Context,
	data DocumentData,
	owner string,
) (string, error) {
	return o.submit(ctx, FamilyDocument, owner,
		func() string {
			return buildDocumentPrompt(data, o.cfg.MaxFieldChars, o.cfg.MaxFileNameChars)
		},
		agent.ChatContext{UserID: owner, PageContext: "invoices"},
		msgDocumentAnalysisFailed)
}

// SubmitVoucher starts a background analysis of a payment voucher. Vouchers
// share the document prompt shape but count against their own, tighter
// concurrency ceiling.
func (o *Orchestrator) SubmitVoucher(
	ctx context.Context,
	data DocumentData,
	owner string,
) (string, error) {
	return o.submit(ctx, FamilyVoucher, owner,
		func() string {
			return buildDocumentPrompt(data, o.cfg.MaxFieldChars, o.cfg.MaxFileNameChars)
		},
		agent.ChatContext{UserID: owner, PageContext: "treasury"},
		msgDocumentAnalysisFailed)
}

// GetResult returns the stored result for id, scoped to the caller. Owned
// records are only readable by their owner; records without an owner are
// readable by anyone. The result carries its status tag, so the caller can
// tell "still running" from "done" from "failed".
func (o *Orchestrator) GetResult(id, caller string) (Result, error) {
	rec, ok := o.store.Get(id)
	if !ok {
		return Result{}, ErrNotFound
	}
	if rec.Owner != "" && rec.Owner != caller {
		return Result{}, ErrForbidden
	}
	return rec.Result, nil
}

// Wait blocks until every in-flight background analysis has finished. Used
// during shutdown and by tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// submit is the shared orchestration path. It admits the request, registers
// the processing placeholder synchronously (so an immediate poll never sees
// a missing record), and launches the analysis in the background. The
// concurrency slot is released on every exit path of the goroutine,
// including panics.
func (o *Orchestrator) submit(
	ctx context.Context,
	family string,
	owner string,
	buildPrompt func() string,
	cc agent.ChatContext,
	failureMsg string,
) (string, error) {
	if !o.limiter.TryAcquire(family) {
		o.logger.Warn("max concurrent analyses reached, rejecting submission",
			"family", family)
		return "", ErrTooManyAnalyses
	}

	id := NewAnalysisID()
	o.store.Put(id, Record{
		Result:    Result{Status: StatusProcessing, AnalysisID: id},
		Timestamp: o.now(),
		Owner:     owner,
	})

	// The background task must outlive the submitting request.
	bg := context.WithoutCancel(ctx)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.limiter.Release(family)
		defer func() {
			if r := recover(); r != nil {
				o.logger.Error("analysis task panicked",
					"analysis_id", id,
					"family", family,
					"panic", r)
				o.storeError(id, owner, failureMsg)
			}
		}()

		o.run(bg, id, family, owner, buildPrompt(), cc, failureMsg)
	}()

	return id, nil
}

// run executes a single analysis task and writes its terminal record.
func (o *Orchestrator) run(
	ctx context.Context,
	id, family, owner, prompt string,
	cc agent.ChatContext,
	failureMsg string,
) {
	log := o.logger.With("analysis_id", id, "family", family)

	if !o.agent.IsConfigured() {
		log.Error("analysis agent not configured, failing task")
		o.storeError(id, owner, failureMsg)
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.ChatTimeout)
	defer cancel()

	res, err := o.agent.Chat(callCtx, prompt, cc)
	if err != nil {
		// The raw error goes to the logs only; the stored record carries
		// the generic user-facing message.
		log.Error("analysis task failed", "error", redact.Error(err))
		o.storeError(id, owner, failureMsg)
		return
	}
	if res == nil {
		log.Error("analysis task returned no result")
		o.storeError(id, owner, failureMsg)
		return
	}

	completed := Result{
		Status:     StatusCompleted,
		AnalysisID: id,
		Answer:     res.Answer,
		ToolsUsed:  normalizeToolsUsed(res.ToolsUsed),
	}
	o.store.Put(id, Record{
		Result:    TruncateResult(completed, o.cfg.ResultMaxBytes),
		Timestamp: o.now(),
		Owner:     owner,
	})
	log.Info("analysis completed", "tools_used", len(completed.ToolsUsed))
}

func (o *Orchestrator) storeError(id, owner, msg string) {
	o.store.Put(id, Record{
		Result:    Result{Status: StatusError, AnalysisID: id, Error: msg},
		Timestamp: o.now(),
		Owner:     owner,
	})
}
