// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carebot/internal/modules/account"
	"carebot/internal/modules/aiusage"
	"carebot/internal/modules/chat"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts the account IDs the stores mint: letters, digits, '-' and '_', at most 64 chars.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

// writeUnknownAccount answers a malformed account ID the same way as an unknown one.
func writeUnknownAccount(c *gin.Context) {
	writeError(c, http.StatusNotFound, account.ErrAccountNotFound.Error())
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

const unavailableMessage = "Sorry, the assistant is unavailable right now. Please try again in a moment."

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, account.ErrBadRequest), errors.Is(err, chat.ErrEmptyMessage):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrAccountNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, aiusage.ErrInsufficientTokens):
		writeError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, chat.ErrGenerativeUnavailable):
		writeError(c, http.StatusServiceUnavailable, unavailableMessage)
	case errors.Is(err, account.ErrPersistence):
		writeError(c, http.StatusServiceUnavailable, "order could not be saved, please try again later")
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
