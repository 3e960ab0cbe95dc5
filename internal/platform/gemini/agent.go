// Package gemini implements the agent.Agent port on top of Google's Gemini
// API. It is the production "external analysis operation" the orchestrator
// invokes; everything about the model call stays behind the agent interface.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/econova/nova-api/internal/agent"
	"github.com/econova/nova-api/internal/config"
)

// systemInstruction frames every analysis request. The page context and
// company scope are appended per call.
const systemInstruction = `Eres Nova, el asistente de analisis del CRM Econova.
Analizas datos de ventas, facturas y comprobantes de pago.
Responde en español, usa Markdown y se conciso.`

// Agent is the Gemini-backed analysis agent.
type Agent struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

var _ agent.Agent = (*Agent)(nil)

// NewAgent creates a Gemini agent from the LLM configuration. A missing API
// key is not an error: the agent comes up unconfigured, IsConfigured reports
// false, and analysis tasks fail fast instead of calling out.
func NewAgent(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Agent, error) {
	a := &Agent{
		logger: logger,
		model:  cfg.ModelName,
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn("gemini API key not set, analysis agent disabled")
		return a, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	a.client = client
	return a, nil
}

// IsConfigured reports whether the agent can make model calls.
func (a *Agent) IsConfigured() bool {
	return a.client != nil && a.model != ""
}

// Chat sends the prompt to Gemini and returns the answer text. The direct
// GenerateContent path has no tool loop, so ToolsUsed is always empty here.
func (a *Agent) Chat(ctx context.Context, prompt string, cc agent.ChatContext) (*agent.Result, error) {
	if !a.IsConfigured() {
		return nil, agent.ErrNotConfigured
	}

	instruction := systemInstruction
	if cc.PageContext != "" {
		instruction += fmt.Sprintf("\nContexto de pagina: %s", cc.PageContext)
	}
	if cc.CompanyID != 0 {
		instruction += fmt.Sprintf("\nLimita el analisis a la empresa %d.", cc.CompanyID)
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), genCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", agent.ErrChatFailed, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, agent.ErrEmptyResponse
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, agent.ErrContentBlocked
	}

	answer := resp.Text()
	if answer == "" {
		return nil, agent.ErrEmptyResponse
	}

	a.logger.Debug("gemini chat completed",
		"model", a.model,
		"page_context", cc.PageContext,
		"answer_len", len(answer))

	return &agent.Result{Answer: answer}, nil
}
