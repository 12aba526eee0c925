package market

import (
	"papertrade/internal/consts"
	"papertrade/internal/market"
	"papertrade/internal/model"
	"papertrade/pkg/errors"
	"papertrade/pkg/errors/ecode"
	"papertrade/pkg/response"
	"papertrade/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	gateway *market.Gateway
}

func NewHandler(g *market.Gateway) *Handler {
	return &Handler{gateway: g}
}

func symbolParam(ctx *gin.Context) (string, error) {
	symbol := utils.NormalizeSymbol(ctx.Query("symbol"))
	if symbol == "" {
		return "", errors.WithCode(ecode.ValidateErr, "symbol is required")
	}
	return symbol, nil
}

// QuoteGet 最新价
// 数据源故障且有过期缓存时，过期值和DataUnavailable错误码一起返回
func (h *Handler) QuoteGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		symbol, err := symbolParam(ctx)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		quote, err := h.gateway.Quote(ctx, symbol)
		if err != nil {
			if quote.Stale {
				response.JSON(ctx, err, quote)
				return
			}
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, quote)
	}
}

// HistoryGet 历史K线，with_sma=true时叠加SMA20/SMA50
func (h *Handler) HistoryGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		symbol, err := symbolParam(ctx)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		rng := ctx.DefaultQuery("range", consts.Range6Mo)

		series, err := h.gateway.History(ctx, symbol, rng)
		if err != nil {
			if len(series.Candles) > 0 {
				// 过期缓存降级
				response.JSON(ctx, err, series)
				return
			}
			response.JSON(ctx, err, nil)
			return
		}

		view := model.HistoryView{OHLCSeries: series}
		if ctx.Query("with_sma") == "true" {
			view.SMA20 = market.SMA(series.Candles, 20)
			view.SMA50 = market.SMA(series.Candles, 50)
		}
		response.JSON(ctx, nil, view)
	}
}

// FundamentalsGet 基本面快照，缺失字段为null
func (h *Handler) FundamentalsGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		symbol, err := symbolParam(ctx)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		f, err := h.gateway.Fundamentals(ctx, symbol)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, f)
	}
}

// SymbolsGetList NSE证券列表
func (h *Handler) SymbolsGetList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		symbols, err := h.gateway.Symbols(ctx)
		if err != nil {
			if len(symbols) > 0 {
				response.JSON(ctx, err, symbols)
				return
			}
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, symbols)
	}
}
