package api

import (
	"papertrade/conf"
	"papertrade/internal/dao/query"
	"papertrade/internal/handler/auth"
	marketHandler "papertrade/internal/handler/market"
	"papertrade/internal/handler/portfolio"
	"papertrade/internal/market"
	"papertrade/internal/router"
	"papertrade/internal/service"

	"gorm.io/gorm"
)

func InitRouter(db *gorm.DB) Router {
	appCfg := conf.AppConfig

	ledgerDao := query.NewLedgerDao(db)

	// 行情网关：数据源客户端 + TTL缓存
	client := market.NewClient(market.ClientConfig{
		BaseURL:     appCfg.Market.BaseURL,
		Timeout:     appCfg.Market.Timeout(),
		SymbolsURL:  appCfg.Market.SymbolsURL,
		SymbolsFile: appCfg.Market.SymbolsFile,
	})
	gateway := market.NewGateway(client, appCfg.Market.QuoteTTL(), appCfg.Market.HistoryTTL())

	portfolioService := service.NewPortfolioService(ledgerDao, gateway)

	authH := auth.NewHandler()
	portfolioH := portfolio.NewHandler(portfolioService)
	marketH := marketHandler.NewHandler(gateway)
	wsH := marketHandler.NewWSHandler(gateway)

	apiRouter := router.NewApiRouter(authH, portfolioH, marketH, wsH)

	// 开始广播订阅的报价
	go wsH.BroadcastQuotes()

	return apiRouter
}
