package router

import (
	"papertrade/internal/handler/auth"
	"papertrade/internal/handler/market"
	"papertrade/internal/handler/ping"
	"papertrade/internal/handler/portfolio"
	"papertrade/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ApiRouter struct {
	authHandler      *auth.Handler
	portfolioHandler *portfolio.Handler
	marketHandler    *market.Handler
	wsHandler        *market.WSHandler
}

func NewApiRouter(ah *auth.Handler, ph *portfolio.Handler, mh *market.Handler, wh *market.WSHandler) *ApiRouter {
	return &ApiRouter{authHandler: ah, portfolioHandler: ph, marketHandler: mh, wsHandler: wh}
}

func (api *ApiRouter) Load(g *gin.Engine) {

	g.GET("/ping", ping.Ping())

	base := g.Group("/api/v1")

	a := base.Group("/auth")
	{
		a.POST("/login", api.authHandler.Login())
	}

	// 以下路由全部要求登录
	o := base.Group("/orders", middleware.AuthToken())
	{
		// 下单接口加防重，1秒内重复提交直接拒绝
		o.POST("", middleware.AntiDuplicate(), api.portfolioHandler.OrderExecute())
		o.GET("", api.portfolioHandler.OrdersGetList())
		o.GET("/stats", api.portfolioHandler.OrderStatsGet())
	}

	p := base.Group("", middleware.AuthToken())
	{
		p.GET("/holdings", api.portfolioHandler.HoldingsGetList())
		p.GET("/portfolio/summary", api.portfolioHandler.SummaryGet())
	}

	m := base.Group("/market", middleware.AuthToken())
	{
		m.GET("/quote", api.marketHandler.QuoteGet())
		m.GET("/history", api.marketHandler.HistoryGet())
		m.GET("/fundamentals", api.marketHandler.FundamentalsGet())
		m.GET("/symbols", api.marketHandler.SymbolsGetList())
		m.GET("/ws", api.wsHandler.ServeWS) // 通过websocket订阅报价推送
	}
}
