package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	codejudgeerrors "codejudge/internal/errors"
	"codejudge/internal/verdict"
)

// HTTPJudge is a uniform adapter for an LLM-backed secondary judge: a
// provider-agnostic request/response contract over HTTP, the same shape the
// threat-intelligence lookups elsewhere in this codebase's ancestry use for
// external API sources: a plain *http.Client, an API key header, and a
// JSON body.
type HTTPJudge struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewHTTPJudge builds an HTTPJudge. A nil client defaults to one with a
// generous send timeout; the orchestrator's own per-call context deadline
// still governs the actual request.
func NewHTTPJudge(baseURL, apiKey string, client *http.Client, logger *zap.Logger) *HTTPJudge {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPJudge{BaseURL: baseURL, APIKey: apiKey, HTTPClient: client, Logger: logger}
}

type judgeRequestBody struct {
	Language     string `json:"language"`
	SourceA      string `json:"reference_source"`
	SourceB      string `json:"candidate_source"`
	NormalizedA  string `json:"reference_normalized"`
	NormalizedB  string `json:"candidate_normalized"`
	LogicSummary string `json:"logic_summary"`
}

type judgeResponseBody struct {
	IsLegitimate       bool     `json:"is_legitimate"`
	Confidence         int      `json:"confidence"`
	Reason             string   `json:"reason"`
	DetailedAnalysis   string   `json:"detailed_analysis"`
	CheatingIndicators []string `json:"cheating_indicators"`
	Recommendation     string   `json:"recommendation"`
}

// Judge implements verdict.SecondaryJudge: POST the comparison context,
// decode a structured judgment. A malformed or non-2xx response surfaces as
// a judge-malformed-response / judge-unavailable Diagnostic so the
// orchestrator's heuristic fallback takes over.
func (j *HTTPJudge) Judge(ctx context.Context, req verdict.JudgeRequest) (verdict.Judgment, error) {
	body, err := json.Marshal(judgeRequestBody{
		Language:     req.Language,
		SourceA:      req.SourceA,
		SourceB:      req.SourceB,
		NormalizedA:  req.NormalizedA,
		NormalizedB:  req.NormalizedB,
		LogicSummary: req.LogicSummary,
	})
	if err != nil {
		return verdict.Judgment{}, codejudgeerrors.Wrap(codejudgeerrors.JudgeMalformedResponse, "encoding judge request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, j.BaseURL, bytes.NewReader(body))
	if err != nil {
		return verdict.Judgment{}, codejudgeerrors.Wrap(codejudgeerrors.JudgeUnavailable, "building judge request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+j.APIKey)

	resp, err := j.HTTPClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return verdict.Judgment{}, codejudgeerrors.Wrap(codejudgeerrors.ExecTimeout, "judge request timed out", err)
		}
		return verdict.Judgment{}, codejudgeerrors.Wrap(codejudgeerrors.JudgeUnavailable, "judge request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return verdict.Judgment{}, codejudgeerrors.Wrap(codejudgeerrors.JudgeMalformedResponse, "reading judge response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		j.Logger.Warn("judge returned non-2xx", zap.Int("status", resp.StatusCode))
		return verdict.Judgment{}, codejudgeerrors.Wrap(codejudgeerrors.JudgeUnavailable, fmt.Sprintf("judge returned status %d: %s", resp.StatusCode, string(raw)), err)
	}

	var parsed judgeResponseBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return verdict.Judgment{}, codejudgeerrors.Wrap(codejudgeerrors.JudgeMalformedResponse, string(raw), err)
	}

	return verdict.Judgment{
		IsLegitimate:       parsed.IsLegitimate,
		Confidence:         parsed.Confidence,
		Reason:             parsed.Reason,
		DetailedAnalysis:   parsed.DetailedAnalysis,
		CheatingIndicators: parsed.CheatingIndicators,
		Recommendation:     parsed.Recommendation,
	}, nil
}
