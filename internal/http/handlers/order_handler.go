// README: Order handlers (direct placement without the chat confirmation phrase).
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"carebot/internal/modules/account"
	"carebot/internal/types"
)

type OrderHandler struct {
	accounts *account.Service
}

func NewOrderHandler(svc *account.Service) *OrderHandler {
	return &OrderHandler{accounts: svc}
}

type createOrderReq struct {
	AccountID   string `json:"accountId"`
	ProductName string `json:"productName"`
	Plan        string `json:"plan"`
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.AccountID = strings.TrimSpace(req.AccountID)
	if req.AccountID == "" || strings.TrimSpace(req.ProductName) == "" || strings.TrimSpace(req.Plan) == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	if !isValidID(req.AccountID) {
		writeUnknownAccount(c)
		return
	}

	id, err := h.accounts.PlaceOrder(c.Request.Context(), account.PlaceOrderCommand{
		AccountID: types.ID(req.AccountID),
		Product:   types.Product(strings.TrimSpace(req.ProductName)),
		Plan:      types.Plan(strings.TrimSpace(req.Plan)),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, map[string]any{"orderId": id, "status": account.StatusActive})
}
