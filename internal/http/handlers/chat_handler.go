// README: Chat handler (one message in, one assistant reply out).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"carebot/internal/modules/chat"
	"carebot/internal/types"
)

type ChatHandler struct {
	chat    *chat.Service
	timeout time.Duration
}

// NewChatHandler returns a handler that bounds each turn by timeout (20s when <= 0).
func NewChatHandler(svc *chat.Service, timeout time.Duration) *ChatHandler {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ChatHandler{chat: svc, timeout: timeout}
}

type chatReq struct {
	Message   string `json:"message"`
	AccountID string `json:"accountId"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.AccountID = strings.TrimSpace(req.AccountID)
	req.Message = strings.TrimSpace(req.Message)
	if req.AccountID == "" || req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing accountId or message")
		return
	}
	if !isValidID(req.AccountID) {
		writeUnknownAccount(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	reply, err := h.chat.Handle(ctx, chat.Request{Message: req.Message, AccountID: types.ID(req.AccountID)})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, reply)
}

// Session handles GET /api/accounts/:id/session.
func (h *ChatHandler) Session(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeUnknownAccount(c)
		return
	}
	sess, err := h.chat.Session(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sess)
}

// ResetSession handles DELETE /api/accounts/:id/session.
func (h *ChatHandler) ResetSession(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeUnknownAccount(c)
		return
	}
	sess, err := h.chat.ResetSession(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sess)
}
