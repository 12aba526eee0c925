package model

import "time"

// Quote 一只股票的最新价
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	FetchedAt time.Time `json:"fetched_at"`
	Stale     bool      `json:"stale,omitempty"` // 数据源故障时的过期降级值
}

type Kline struct {
	Timestamp time.Time `json:"time"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// OHLCSeries 日线历史序列
type OHLCSeries struct {
	Symbol  string  `json:"symbol"`
	Range   string  `json:"range"`
	Candles []Kline `json:"candles"`
}

// Fundamentals 基本面快照
// 数据源不保证每个字段都有值，缺失字段保持nil，绝不编造
type Fundamentals struct {
	Symbol        string   `json:"symbol"`
	PERatio       *float64 `json:"pe_ratio"`
	PBRatio       *float64 `json:"pb_ratio"`
	MarketCap     *float64 `json:"market_cap"`
	ROE           *float64 `json:"roe"`
	DebtEquity    *float64 `json:"debt_equity"`
	DividendYield *float64 `json:"dividend_yield"`
	Week52High    *float64 `json:"week_52_high"`
	Week52Low     *float64 `json:"week_52_low"`
	AvgVolume     *float64 `json:"avg_volume"`
	Sector        *string  `json:"sector"`
	Industry      *string  `json:"industry"`
}

// HistoryView 历史K线加均线叠加，用于分析页
type HistoryView struct {
	OHLCSeries
	SMA20 []float64 `json:"sma20,omitempty"`
	SMA50 []float64 `json:"sma50,omitempty"`
}
