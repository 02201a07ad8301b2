package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/domain/documents/quote"
)

// QuoteHandler exposes quote operations.
type QuoteHandler struct {
	svc *quote.Service
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

// Convert handles POST /quotes/:id/convert: turns the quote into a draft
// invoice and returns it.
func (h *QuoteHandler) Convert(c *gin.Context) {
	quoteID, err := id.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(apperror.NewValidation("invalid quote id").WithCause(err))
		c.Abort()
		return
	}

	inv, err := h.svc.Convert(c.Request.Context(), quoteID)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusCreated, inv)
}
