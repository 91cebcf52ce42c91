// README: HTTP router registration.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"carebot/internal/http/handlers"
	"carebot/internal/http/middleware"
	"carebot/internal/modules/account"
	"carebot/internal/modules/chat"
	"carebot/internal/modules/issues"
	"carebot/internal/modules/pricing"
)

type RouterDeps struct {
	Accounts    *account.Service
	Chat        *chat.Service
	Issues      *issues.Service
	Pricing     *pricing.Service
	ChatTimeout time.Duration
	Log         *logrus.Entry
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	chatHandler := handlers.NewChatHandler(deps.Chat, deps.ChatTimeout)
	accountHandler := handlers.NewAccountHandler(deps.Accounts, deps.Issues, deps.ChatTimeout)
	orderHandler := handlers.NewOrderHandler(deps.Accounts)
	catalogHandler := handlers.NewCatalogHandler(deps.Pricing)

	api := r.Group("/api")
	api.POST("/chat", chatHandler.Chat)
	api.GET("/catalog", catalogHandler.List)
	api.POST("/orders", orderHandler.Create)

	accounts := api.Group("/accounts/:id")
	accounts.GET("", accountHandler.Get)
	accounts.POST("/issues/summary", accountHandler.Issues)
	accounts.GET("/session", chatHandler.Session)
	accounts.DELETE("/session", chatHandler.ResetSession)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
