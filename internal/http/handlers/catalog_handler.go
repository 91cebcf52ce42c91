// README: Catalogue handler (products, plans and monthly prices).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carebot/internal/modules/pricing"
	"carebot/internal/types"
)

type CatalogHandler struct {
	pricing *pricing.Service
}

func NewCatalogHandler(svc *pricing.Service) *CatalogHandler {
	return &CatalogHandler{pricing: svc}
}

// List handles GET /api/catalog.
func (h *CatalogHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{
		"products": types.Products,
		"plans":    types.Plans,
		"rates":    h.pricing.Rates(),
	})
}
