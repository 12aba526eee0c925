package portfolio

import (
	"papertrade/internal/model"
	"papertrade/internal/service"
	"papertrade/pkg/errors"
	"papertrade/pkg/errors/ecode"
	"papertrade/pkg/response"
	"papertrade/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.PortfolioService
}

func NewHandler(s *service.PortfolioService) *Handler {
	return &Handler{service: s}
}

// OrderExecute 下单接口
// 被拒的订单也返回执行结果（状态REJECTED），错误码说明原因
func (h *Handler) OrderExecute() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.OrderExecuteReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "%s", validator.Translate(err)), nil)
			return
		}

		result, err := h.service.ExecuteOrder(ctx, req)
		if err != nil {
			// 拒单时result里带审计信息，一并返回给前端展示
			if result.Status == model.OrderRejected {
				response.JSON(ctx, err, result)
				return
			}
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, result)
	}
}

// OrdersGetList 订单流水，支持symbol/strategy/日期过滤
func (h *Handler) OrdersGetList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.OrderListReq
		if err := ctx.ShouldBindQuery(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "%s", validator.Translate(err)), nil)
			return
		}

		records, err := h.service.Orders(ctx, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, records)
	}
}

// OrderStatsGet 订单簿统计
func (h *Handler) OrderStatsGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		stats, err := h.service.OrderStats(ctx)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "query order stats failed"), nil)
			return
		}
		response.JSON(ctx, nil, stats)
	}
}

// HoldingsGetList 持仓列表（含现价和盈亏）
func (h *Handler) HoldingsGetList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		views, err := h.service.Holdings(ctx)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "query holdings failed"), nil)
			return
		}
		response.JSON(ctx, nil, views)
	}
}

// SummaryGet 资产总览
func (h *Handler) SummaryGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		summary, err := h.service.Summary(ctx)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "query summary failed"), nil)
			return
		}
		response.JSON(ctx, nil, summary)
	}
}
