package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/punterhub/wallet/internal/server/http/handlers"
	"github.com/punterhub/wallet/internal/server/http/middleware"
)

const (
	livePath    = "/api/live"
	metricsPath = "/metrics"
)

// Setup configures gin router with handlers and middleware.
func Setup(
	facade handlers.Facade,
	live handlers.LiveServer,
	resolveLimiter middleware.Limiter,
	health []handlers.HealthCheck,
	logger *slog.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.DecompressRequest())
	// Websocket upgrades need the raw connection.
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{livePath, metricsPath})))

	engine.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	engine.GET("/healthz", handlers.NewHealthHandler(health...).Health)

	sessionHandler := handlers.NewSessionHandler(facade)
	walletHandler := handlers.NewWalletHandler(facade)
	withdrawalHandler := handlers.NewWithdrawalHandler(facade)
	marketHandler := handlers.NewMarketHandler(facade)
	liveHandler := handlers.NewLiveHandler(facade, live, logger)

	api := engine.Group("/api")
	api.POST("/session", sessionHandler.Open)

	authed := api.Group("")
	authed.Use(middleware.SessionRequired(facade))
	authed.DELETE("/session", sessionHandler.Close)
	authed.PUT("/session/role", sessionHandler.SwitchRole)
	authed.GET("/me", sessionHandler.Me)
	authed.GET("/live", liveHandler.Serve)

	wallet := authed.Group("/wallet")
	wallet.GET("/packages", walletHandler.Packages)
	wallet.GET("/pricing", walletHandler.Preview)
	wallet.GET("/banks", walletHandler.Banks)
	wallet.POST("/deposits", walletHandler.Initiate)
	wallet.POST("/deposits/:reference/complete", walletHandler.Complete)
	wallet.POST("/deposits/:reference/cancel", walletHandler.Cancel)
	wallet.GET("/withdrawal", withdrawalHandler.Draft)
	wallet.PATCH("/withdrawal", withdrawalHandler.Edit)
	wallet.DELETE("/withdrawal", withdrawalHandler.Discard)
	wallet.POST("/withdrawal/resolve", middleware.RateLimit(resolveLimiter, "resolve", logger), withdrawalHandler.Resolve)
	wallet.POST("/withdrawal/submit", withdrawalHandler.Submit)

	market := authed.Group("/market")
	market.GET("/punters", marketHandler.Punters)
	market.GET("/daily", marketHandler.Daily)
	market.GET("/feed", marketHandler.Feed)
	market.POST("/tips/:id/buy", marketHandler.BuyTip)
	market.POST("/tips", marketHandler.CreateTip)
	market.POST("/signals", marketHandler.CreateSignal)
	market.POST("/comments", marketHandler.Comment)
	market.POST("/messages", marketHandler.SendMessage)
	market.POST("/conversations", marketHandler.CreateConversation)

	authed.PUT("/profile", marketHandler.EditProfile)
	authed.PUT("/profile/pricing", marketHandler.UpdatePricing)

	return engine
}
