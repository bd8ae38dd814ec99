package coverletters

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/respond"
)

// Generator is the pipeline entry point used by Handler.
type Generator interface {
	Generate(ctx context.Context, jobDescription string) (Result, error)
}

// Handler exposes the pipeline over HTTP.
type Handler struct {
	svc Generator
}

// NewHandler constructs a Handler.
func NewHandler(svc Generator) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers cover letter routes on rg. mw runs before the
// handler, e.g. a rate limiter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.create)
	rg.POST("/cover-letters", handlers...)
}

type createRequest struct {
	JobDescription string `json:"jobDescription"`
}

type createResponse struct {
	CoverLetter string `json:"coverLetter"`
	Persisted   bool   `json:"persisted"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(newError(CodeMissingInput, errors.Join(ErrMissingInput, err)))
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), req.JobDescription)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond.OK(c, createResponse{
		CoverLetter: result.CoverLetter,
		Persisted:   result.Persisted,
	})
}
