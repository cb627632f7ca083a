package handler

import (
	"net/http"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Store    storage.Storage
	Tokens   *auth.TokenService
	ListMode config.ListMode
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
	// Webhook, when set, receives Telegram updates on POST /telegram.
	Webhook gin.HandlerFunc
}

// NewRouter wires every route twice: at the root and under /api.
func NewRouter(d Deps) *gin.Engine {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.ListMode == "" {
		d.ListMode = config.ListPaginated
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Webhook != nil {
		router.POST("/telegram", d.Webhook)
	}

	authMiddleware := middleware.NewAuthMiddleware(d.Tokens, d.Store, d.Now)
	authHandler := NewAuthHandler(d.Store, d.Tokens)
	entries := NewAvailableMoneyHandler(d.Store, d.ListMode)
	categories := NewCategoryHandler(d.Store, d.ListMode)
	payments := NewPaymentHandler(d.Store)
	finances := NewFinanceHandler(d.Store, d.Now)

	for _, prefix := range []string{"", "/api"} {
		g := router.Group(prefix)
		g.POST("/register", authHandler.Register)
		g.POST("/login", authHandler.Login)

		api := g.Group("")
		api.Use(authMiddleware.RequireAuth())
		{
			api.POST("/logout", authHandler.Logout)

			api.GET("/entrada", entries.List)
			api.POST("/entrada", entries.Create)
			api.POST("/entrada/search", entries.Search)
			api.GET("/entrada/:id", entries.Show)
			api.PUT("/entrada/:id", entries.Update)
			api.DELETE("/entrada/:id", entries.Destroy)

			api.GET("/categoria", categories.List)
			api.POST("/categoria", categories.Create)
			api.POST("/categoria/search", categories.Search)
			api.GET("/categoria/:id", categories.Show)
			api.PUT("/categoria/:id", categories.Update)
			api.DELETE("/categoria/:id", categories.Destroy)

			api.GET("/pagamento", payments.List)
			api.POST("/pagamento", payments.Create)
			api.GET("/pagamento/:id", payments.Show)
			api.PUT("/pagamento/:id", payments.Update)
			api.DELETE("/pagamento/:id", payments.Destroy)

			api.GET("/despesa", finances.List)
			api.POST("/despesa", finances.Create)
			api.POST("/despesa/search", finances.Search)
			api.GET("/despesa/:id", finances.Show)
			api.PUT("/despesa/:id", finances.Update)
			api.DELETE("/despesa/:id", finances.Destroy)
		}
	}
	return router
}
