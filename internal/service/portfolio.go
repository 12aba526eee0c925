package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"papertrade/internal/consts"
	"papertrade/internal/dao"
	"papertrade/internal/model"
	"papertrade/internal/model/entity"
	"papertrade/pkg/errors"
	"papertrade/pkg/errors/ecode"
	"papertrade/pkg/logger"
	"papertrade/utils"

	"github.com/bwmarrin/snowflake"
)

// QuoteSource 下单价格解析只需要报价能力
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
}

// PortfolioService 交易编排：校验下单意图、解析价格，
// 把买卖转换成账本的原子变更。自身不持有任何状态。
type PortfolioService struct {
	ledger dao.LedgerDao
	market QuoteSource
	node   *snowflake.Node

	// 三步变更（现金、持仓、订单）的互斥边界
	mu sync.Mutex
}

func NewPortfolioService(ledger dao.LedgerDao, market QuoteSource) *PortfolioService {
	node, err := snowflake.NewNode(1)
	if err != nil {
		// 节点号固定为1，只会在常量越界时失败
		panic(err)
	}
	return &PortfolioService{
		ledger: ledger,
		market: market,
		node:   node,
	}
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9&-]*$`)

// ExecuteOrder 执行一次下单
// 成交和被拒都会追加一条订单流水；入参非法（数量、价格、symbol）
// 在形成订单前就被拦下，不产生流水。
func (s *PortfolioService) ExecuteOrder(ctx context.Context, req model.OrderExecuteReq) (model.ExecutionResult, error) {
	symbol := utils.NormalizeSymbol(req.Symbol)
	if !symbolPattern.MatchString(symbol) {
		return model.ExecutionResult{}, errors.WithCode(ecode.InvalidInput, "malformed symbol %q", req.Symbol)
	}
	side := model.OrderSide(req.Side)
	if !side.Valid() {
		return model.ExecutionResult{}, errors.WithCode(ecode.InvalidInput, "side must be BUY or SELL")
	}
	if req.Quantity <= 0 {
		return model.ExecutionResult{}, errors.WithCode(ecode.InvalidInput, "quantity must be a positive integer")
	}
	if req.Price < 0 {
		return model.ExecutionResult{}, errors.WithCode(ecode.InvalidInput, "price cannot be negative")
	}

	// 用户显式给价优先；没给价才用网关报价兜底
	price := req.Price
	if price == 0 {
		quote, err := s.market.Quote(ctx, symbol)
		if err != nil {
			// 行情不可用不是致命错误，提示手动输入价格后重试
			return model.ExecutionResult{}, errors.Wrap(err, ecode.DataUnavailable,
				"quote unavailable, supply a manual price")
		}
		price = quote.Price
	}
	if price <= 0 {
		return model.ExecutionResult{}, errors.WithCode(ecode.InvalidInput, "price must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 新订单先处于PENDING，事务内结算为FILLED或REJECTED终态
	record := &entity.OrderRecord{
		OrderId:   s.node.Generate().String(),
		Symbol:    symbol,
		OrderType: string(side),
		Quantity:  req.Quantity,
		Price:     price,
		Timestamp: time.Now(),
		Status:    string(model.OrderPending),
		Strategy:  strings.TrimSpace(req.Strategy),
	}

	var cashAfter float64
	var rejectReason string
	err := s.ledger.Transaction(ctx, func(tx dao.LedgerDao) error {
		cash, err := tx.CashGet(ctx)
		if err != nil {
			return err
		}
		cashAfter = cash

		switch side {
		case model.Buy:
			required := float64(req.Quantity) * price
			if required > cash {
				rejectReason = model.ReasonInsufficientFunds
				break
			}
			holding, found, err := tx.HoldingGet(ctx, symbol)
			if err != nil {
				return err
			}
			newQty := req.Quantity
			newAvg := price
			if found {
				// 加权平均成本
				newQty = holding.Quantity + req.Quantity
				newAvg = (float64(holding.Quantity)*holding.AvgPrice + float64(req.Quantity)*price) / float64(newQty)
			}
			if err := tx.HoldingUpsert(ctx, symbol, newQty, newAvg); err != nil {
				return err
			}
			if err := tx.CashSet(ctx, cash-required); err != nil {
				return err
			}
			cashAfter = cash - required

		case model.Sell:
			holding, found, err := tx.HoldingGet(ctx, symbol)
			if err != nil {
				return err
			}
			if !found || holding.Quantity < req.Quantity {
				rejectReason = model.ReasonInsufficientQuantity
				break
			}
			// 卖出不改变平均成本，数量归零时删行
			if err := tx.HoldingUpsert(ctx, symbol, holding.Quantity-req.Quantity, holding.AvgPrice); err != nil {
				return err
			}
			proceeds := float64(req.Quantity) * price
			if err := tx.CashSet(ctx, cash+proceeds); err != nil {
				return err
			}
			cashAfter = cash + proceeds
		}

		if rejectReason != "" {
			record.Status = string(model.OrderRejected)
			record.Reason = rejectReason
		} else {
			record.Status = string(model.OrderFilled)
		}
		// 被拒的尝试同样入审计流水
		return tx.OrderAppend(ctx, record)
	})
	if err != nil {
		return model.ExecutionResult{}, errors.Wrap(err, ecode.Unknown, "order execution failed")
	}

	result := model.ExecutionResult{
		OrderId:  record.OrderId,
		Symbol:   symbol,
		Side:     side,
		Quantity: req.Quantity,
		Price:    price,
		Status:   model.OrderStatus(record.Status),
		Reason:   record.Reason,
		Cash:     cashAfter,
	}

	switch rejectReason {
	case model.ReasonInsufficientFunds:
		result.Message = "Insufficient funds"
		return result, errors.WithCode(ecode.InsufficientFunds,
			"need %.2f, available %.2f", float64(req.Quantity)*price, cashAfter)
	case model.ReasonInsufficientQuantity:
		result.Message = "Insufficient quantity to sell"
		return result, errors.WithCode(ecode.InsufficientQuantity,
			"cannot sell %d of %s", req.Quantity, symbol)
	}

	result.Message = "Order executed successfully"
	logger.Infof("order filled: %s %s x%d @ %.2f", side, symbol, req.Quantity, price)
	return result, nil
}

// Holdings 持仓列表，叠加现价与盈亏
// 现价拿不到时给0；只有过期缓存时用过期值并打Stale标记
func (s *PortfolioService) Holdings(ctx context.Context) ([]model.HoldingView, error) {
	holdings, err := s.ledger.HoldingsGetAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.HoldingView, 0, len(holdings))
	for _, h := range holdings {
		view := model.HoldingView{
			Symbol:        h.Symbol,
			Quantity:      h.Quantity,
			AvgPrice:      h.AvgPrice,
			InvestedValue: float64(h.Quantity) * h.AvgPrice,
		}
		quote, qerr := s.market.Quote(ctx, h.Symbol)
		if quote.Price > 0 {
			view.LastPrice = quote.Price
			view.PriceStale = quote.Stale
			view.CurrentValue = float64(h.Quantity) * quote.Price
			view.Pnl = view.CurrentValue - view.InvestedValue
			if view.InvestedValue > 0 {
				view.PnlPct = view.Pnl / view.InvestedValue * 100
			}
		} else if qerr != nil {
			logger.Warnf("no price for holding %s: %v", h.Symbol, qerr)
		}
		views = append(views, view)
	}
	return views, nil
}

// Summary 资产总览：现金 + 持仓市值
func (s *PortfolioService) Summary(ctx context.Context) (model.PortfolioSummary, error) {
	cash, err := s.ledger.CashGet(ctx)
	if err != nil {
		return model.PortfolioSummary{}, err
	}
	views, err := s.Holdings(ctx)
	if err != nil {
		return model.PortfolioSummary{}, err
	}
	summary := model.PortfolioSummary{Cash: cash}
	for _, v := range views {
		summary.InvestedValue += v.InvestedValue
		summary.CurrentValue += v.CurrentValue
	}
	summary.TotalValue = cash + summary.CurrentValue
	summary.TotalPnl = summary.CurrentValue - summary.InvestedValue
	if summary.InvestedValue > 0 {
		summary.TotalPnlPct = summary.TotalPnl / summary.InvestedValue * 100
	}
	summary.CashText = utils.FormatINR(summary.Cash)
	summary.TotalValueText = utils.FormatINR(summary.TotalValue)
	summary.TotalPnlText = utils.FormatINR(summary.TotalPnl)
	return summary, nil
}

// Orders 订单流水查询，时间倒序
func (s *PortfolioService) Orders(ctx context.Context, req model.OrderListReq) ([]entity.OrderRecord, error) {
	filter := model.OrderFilter{
		Strategy: strings.TrimSpace(req.Strategy),
	}
	if req.Symbol != "" {
		filter.Symbol = utils.NormalizeSymbol(req.Symbol)
	}
	if req.Start != "" {
		t, err := time.Parse(consts.DateLayout, req.Start)
		if err != nil {
			return nil, errors.WithCode(ecode.InvalidInput, "bad start date %q", req.Start)
		}
		filter.Start = t
	}
	if req.End != "" {
		t, err := time.Parse(consts.DateLayout, req.End)
		if err != nil {
			return nil, errors.WithCode(ecode.InvalidInput, "bad end date %q", req.End)
		}
		// 截止日期按整天算
		filter.End = t.AddDate(0, 0, 1)
	}
	return s.ledger.OrdersList(ctx, filter)
}

// OrderStats 订单簿统计
func (s *PortfolioService) OrderStats(ctx context.Context) (model.OrderStats, error) {
	return s.ledger.OrderStats(ctx)
}

// Cash 当前现金余额
func (s *PortfolioService) Cash(ctx context.Context) (float64, error) {
	return s.ledger.CashGet(ctx)
}
