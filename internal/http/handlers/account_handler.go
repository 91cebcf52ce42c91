// README: Account handlers (details and top-issues summary).
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carebot/internal/modules/account"
	"carebot/internal/modules/issues"
	"carebot/internal/types"
)

type AccountHandler struct {
	accounts *account.Service
	issues   *issues.Service
	timeout  time.Duration
}

func NewAccountHandler(accounts *account.Service, issuesSvc *issues.Service, timeout time.Duration) *AccountHandler {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &AccountHandler{accounts: accounts, issues: issuesSvc, timeout: timeout}
}

// Get handles GET /api/accounts/:id.
func (h *AccountHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeUnknownAccount(c)
		return
	}
	a, err := h.accounts.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, a)
}

// Issues handles POST /api/accounts/:id/issues/summary.
func (h *AccountHandler) Issues(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeUnknownAccount(c)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	report, err := h.issues.Summarize(ctx, types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, report)
}
