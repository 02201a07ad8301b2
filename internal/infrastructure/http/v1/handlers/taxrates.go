package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/domain/catalogs/taxrate"
)

// TaxRateHandler exposes tax-rate catalog operations.
type TaxRateHandler struct {
	svc   *taxrate.Service
	rates taxrate.Repository
}

// NewTaxRateHandler creates a new tax-rate handler.
func NewTaxRateHandler(svc *taxrate.Service, rates taxrate.Repository) *TaxRateHandler {
	return &TaxRateHandler{svc: svc, rates: rates}
}

// SetDefault handles PUT /tax-rates/:id/default: flags the rate as the
// default, unsetting the previous one.
func (h *TaxRateHandler) SetDefault(c *gin.Context) {
	rateID, err := id.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(apperror.NewValidation("invalid tax rate id").WithCause(err))
		c.Abort()
		return
	}

	rate, err := h.rates.GetByID(c.Request.Context(), rateID)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	if err := h.svc.SetDefault(c.Request.Context(), rate); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, rate)
}
