package coverletters

import (
	"errors"
	"fmt"
	"net/http"

	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/llm"
)

var (
	// ErrMissingInput indicates the job description is absent or blank.
	ErrMissingInput = errors.New("job description is required")

	// ErrCacheWrite indicates the generated letter could not be persisted.
	ErrCacheWrite = errors.New("cache write failed")

	// ErrCacheCorrupt indicates the cache file exists but is not a valid mapping.
	ErrCacheCorrupt = errors.New("cache file corrupt")

	// ErrNotConfigured indicates the service was built without a dependency.
	ErrNotConfigured = errors.New("service dependencies not configured")
)

const (
	CodeMissingInput       = "MISSING_INPUT"
	CodeResumeRead         = "RESUME_READ_ERROR"
	CodeResumeParse        = "RESUME_PARSE_ERROR"
	CodeModelInvocation    = "MODEL_INVOCATION_ERROR"
	CodeEmptyModelResponse = "EMPTY_MODEL_RESPONSE"
	CodeCacheWrite         = "CACHE_WRITE_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

const (
	msgBeforeModel = "An error occurred before querying OpenAI"
	msgDuringModel = "An error occurred while querying OpenAI"
	msgCacheWrite  = "An error occurred while saving the cover letter"
)

type errorKind struct {
	status  int
	message string
}

var kinds = map[string]errorKind{
	CodeMissingInput:       {http.StatusBadRequest, msgBeforeModel},
	CodeResumeRead:         {http.StatusInternalServerError, msgBeforeModel},
	CodeResumeParse:        {http.StatusInternalServerError, msgBeforeModel},
	CodeModelInvocation:    {http.StatusBadGateway, msgDuringModel},
	CodeEmptyModelResponse: {http.StatusBadGateway, msgDuringModel},
	CodeCacheWrite:         {http.StatusInternalServerError, msgCacheWrite},
	CodeInternal:           {http.StatusInternalServerError, msgBeforeModel},
}

// Error is the structured failure returned by the pipeline.
// Log carries diagnostic detail; Message is safe to show to callers.
type Error struct {
	Code    string
	Status  int
	Log     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Log)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus, ErrorCode and UserMessage let the HTTP error middleware render e.
func (e *Error) HTTPStatus() int     { return e.Status }
func (e *Error) ErrorCode() string   { return e.Code }
func (e *Error) UserMessage() string { return e.Message }

func newError(code string, err error) *Error {
	kind, ok := kinds[code]
	if !ok {
		kind = errorKind{http.StatusInternalServerError, msgBeforeModel}
	}
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &Error{
		Code:    code,
		Status:  kind.status,
		Log:     detail,
		Message: kind.message,
		Err:     err,
	}
}

// classify maps err onto a pipeline error code. fallback is used when err
// carries none of the known sentinels.
func classify(err error, fallback string) *Error {
	var pipelineErr *Error
	if errors.As(err, &pipelineErr) {
		return pipelineErr
	}
	code := fallback
	switch {
	case errors.Is(err, ErrMissingInput):
		code = CodeMissingInput
	case errors.Is(err, extract.ErrResumeRead):
		code = CodeResumeRead
	case errors.Is(err, extract.ErrResumeParse):
		code = CodeResumeParse
	case errors.Is(err, llm.ErrEmptyResponse):
		code = CodeEmptyModelResponse
	case errors.Is(err, llm.ErrModelInvocation):
		code = CodeModelInvocation
	case errors.Is(err, ErrCacheWrite), errors.Is(err, ErrCacheCorrupt):
		code = CodeCacheWrite
	}
	return newError(code, err)
}
