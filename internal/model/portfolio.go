package model

// HoldingView 持仓页展示的单条持仓，叠加现价和盈亏
type HoldingView struct {
	Symbol        string  `json:"symbol"`
	Quantity      int64   `json:"quantity"`
	AvgPrice      float64 `json:"avg_price"`
	LastPrice     float64 `json:"last_price"`           // 拿不到现价时为0
	PriceStale    bool    `json:"price_stale,omitempty"` // 现价来自过期缓存
	InvestedValue float64 `json:"invested_value"`
	CurrentValue  float64 `json:"current_value"`
	Pnl           float64 `json:"pnl"`
	PnlPct        float64 `json:"pnl_pct"`
}

// PortfolioSummary 侧边栏的资产总览
type PortfolioSummary struct {
	Cash          float64 `json:"cash"`
	InvestedValue float64 `json:"invested_value"`
	CurrentValue  float64 `json:"current_value"`
	TotalValue    float64 `json:"total_value"` // 现金 + 持仓市值
	TotalPnl      float64 `json:"total_pnl"`
	TotalPnlPct   float64 `json:"total_pnl_pct"`

	// 按印度分组习惯格式化的展示串，前端直接用
	CashText       string `json:"cash_text"`
	TotalValueText string `json:"total_value_text"`
	TotalPnlText   string `json:"total_pnl_text"`
}
