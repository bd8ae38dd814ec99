package coverletters

import (
	"context"
	"strings"
	"time"

	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/telemetry"
	"coverletter-backend/internal/shared/util"
)

const persistTimeout = 10 * time.Second

// ResumeSource yields the candidate resume as plain text.
type ResumeSource interface {
	Extract(ctx context.Context) (string, error)
}

// Service runs the cover letter pipeline: validate, extract, compose,
// invoke and persist. Stages run sequentially and a failing stage halts the
// run, except persistence, whose failure is reported through Result.Persisted.
type Service struct {
	Resume ResumeSource
	LLM    llm.Client
	Store  Store
}

// Generate produces a cover letter for jobDescription. Every returned error
// is an *Error.
func (s *Service) Generate(ctx context.Context, jobDescription string) (Result, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return Result{}, s.fail(newError(CodeMissingInput, ErrMissingInput))
	}
	if s.Resume == nil || s.LLM == nil || s.Store == nil {
		return Result{}, s.fail(newError(CodeInternal, ErrNotConfigured))
	}
	metrics.IncLetterRequested()
	keyHash := util.HashKey(jobDescription)

	resumeText, err := s.Resume.Extract(ctx)
	if err != nil {
		return Result{}, s.fail(classify(err, CodeResumeRead))
	}

	prompt := llm.BuildCoverLetterPrompt(resumeText, jobDescription)

	start := time.Now()
	letter, err := s.LLM.Complete(ctx, prompt)
	elapsed := time.Since(start)
	metrics.ObserveGenerationDurationMs(float64(elapsed.Milliseconds()))
	if err != nil {
		return Result{}, s.fail(classify(err, CodeModelInvocation))
	}
	if strings.TrimSpace(letter) == "" {
		return Result{}, s.fail(newError(CodeEmptyModelResponse, llm.ErrEmptyResponse))
	}

	// Persistence ignores request cancellation once the model has answered.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	persisted := true
	if err := s.Store.Append(persistCtx, jobDescription, letter); err != nil {
		persisted = false
		cacheErr := classify(err, CodeCacheWrite)
		metrics.IncCacheWriteFailed()
		telemetry.Warn("cover_letter.cache_write_failed", map[string]any{
			"code":     cacheErr.Code,
			"key_hash": keyHash,
			"error":    cacheErr.Log,
		})
	}

	metrics.IncLetterGenerated()
	telemetry.Info("cover_letter.generated", map[string]any{
		"key_hash":     keyHash,
		"prompt_chars": len(prompt),
		"letter_chars": len(letter),
		"model_ms":     elapsed.Milliseconds(),
		"persisted":    persisted,
	})
	return Result{CoverLetter: letter, Persisted: persisted}, nil
}

func (s *Service) fail(err *Error) *Error {
	metrics.IncFailure(err.Code)
	telemetry.Warn("cover_letter.failed", map[string]any{
		"code":   err.Code,
		"status": err.Status,
		"error":  err.Log,
	})
	return err
}
