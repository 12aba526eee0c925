package service

import (
	"context"
	"math"
	"testing"

	"papertrade/internal/dao/query"
	"papertrade/internal/model"
	"papertrade/pkg/db"

	"pgregory.net/rapid"
)

// 随机买卖序列下账本不变量：
// 现金永不为负、持仓数量为正、现金+成交净流出守恒、均价落在成交价区间内
func TestProperty_LedgerInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ds, err := db.Open(db.Config{Path: ":memory:", StartingCash: 500000})
		if err != nil {
			rt.Fatalf("open db: %v", err)
		}
		defer db.Close(ds)
		s := NewPortfolioService(query.NewLedgerDao(ds), &fakeQuoteSource{})
		ctx := context.Background()

		symbols := []string{"AAA", "BBB", "CCC"}
		numOps := rapid.IntRange(1, 40).Draw(rt, "numOps")

		netOut := 0.0 // 成交净流出 = 买入支出 - 卖出回款
		minPrice := math.Inf(1)
		maxPrice := math.Inf(-1)

		for i := 0; i < numOps; i++ {
			req := model.OrderExecuteReq{
				Symbol:   rapid.SampledFrom(symbols).Draw(rt, "symbol"),
				Quantity: rapid.Int64Range(1, 100).Draw(rt, "quantity"),
				Price:    float64(rapid.Int64Range(1, 5000).Draw(rt, "price")),
			}
			if rapid.Bool().Draw(rt, "isBuy") {
				req.Side = "BUY"
			} else {
				req.Side = "SELL"
			}

			res, err := s.ExecuteOrder(ctx, req)
			if err != nil && res.Status != model.OrderRejected {
				rt.Fatalf("unexpected failure: %v", err)
			}
			if res.Status == model.OrderFilled {
				if req.Side == "BUY" {
					netOut += float64(req.Quantity) * req.Price
				} else {
					netOut -= float64(req.Quantity) * req.Price
				}
				if req.Price < minPrice {
					minPrice = req.Price
				}
				if req.Price > maxPrice {
					maxPrice = req.Price
				}
			}

			cash, err := s.Cash(ctx)
			if err != nil {
				rt.Fatalf("Cash: %v", err)
			}
			if cash < 0 {
				rt.Fatalf("cash went negative: %v", cash)
			}
		}

		cash, _ := s.Cash(ctx)
		if math.Abs(cash-(500000-netOut)) > 1e-6 {
			rt.Fatalf("cash = %v, want %v", cash, 500000-netOut)
		}

		views, err := s.Holdings(ctx)
		if err != nil {
			rt.Fatalf("Holdings: %v", err)
		}
		for _, v := range views {
			if v.Quantity <= 0 {
				rt.Fatalf("non-positive holding: %+v", v)
			}
			// 均价必然落在历史成交价之间
			if v.AvgPrice < minPrice-1e-6 || v.AvgPrice > maxPrice+1e-6 {
				rt.Fatalf("avg price %v outside traded range [%v, %v]", v.AvgPrice, minPrice, maxPrice)
			}
		}
	})
}
