package handler

import (
	"exchange-relay/internal/adapter/http/middleware"
	"exchange-relay/internal/adapter/metrics"
	"exchange-relay/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// defaultMaxBodyBytes bounds inbound request bodies.
const defaultMaxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	NewsSvc        ports.NewsService
	InfoSvc        ports.InfoService
	ExchangeSvc    ports.ExchangeService
	HealthCheckers []ports.HealthChecker
	Metrics        *metrics.Collector // nil = /metrics disabled
	MaxBodyBytes   int64              // 0 = 1 MB
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORS())
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.MaxBodySize(maxBody))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := r.Group("/api/v1")

	newsHandler := NewNewsHandler(deps.NewsSvc)
	v1.POST("/info/news", newsHandler.FetchNews)

	infoHandler := NewInfoHandler(deps.InfoSvc)
	portfolio := v1.Group("/portfolio")
	{
		portfolio.POST("/train-bullish", infoHandler.TrainBullish)
		portfolio.POST("/refresh", infoHandler.Refresh)
		portfolio.POST("/refresh-model", infoHandler.RefreshModel)
		portfolio.POST("/bullish", infoHandler.Bullish)
	}
	results := v1.Group("/results")
	{
		results.POST("/simulated-trades", infoHandler.SimulatedTrades)
		results.POST("/accumulated-revenue", infoHandler.AccumulatedRevenue)
	}

	exchangeHandler := NewExchangeHandler(deps.ExchangeSvc)
	asset := v1.Group("/asset")
	{
		asset.POST("/getUserAsset", exchangeHandler.GetUserAsset)
		asset.POST("/dust-btc", exchangeHandler.DustBTC)
		asset.POST("/dust", exchangeHandler.Dust)
	}
	v1.POST("/depositHistory", exchangeHandler.DepositHistory)
	v1.POST("/accountSnapshot", exchangeHandler.AccountSnapshot)
	v1.POST("/exchangeInfo", exchangeHandler.ConvertExchangeInfo)
	convert := v1.Group("/convert")
	{
		convert.POST("/getQuote", exchangeHandler.GetQuote)
		convert.POST("/acceptQuote", exchangeHandler.AcceptQuote)
	}
	v1.POST("/ticker/price", exchangeHandler.TickerPrice)

	return r
}
