package model

import "time"

type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

func (s OrderSide) Valid() bool {
	return s == Buy || s == Sell
}

// 订单状态机：PENDING → FILLED | REJECTED，只有终态，无撤单改单
type OrderStatus string

const (
	OrderPending  OrderStatus = "PENDING"
	OrderFilled   OrderStatus = "FILLED"
	OrderRejected OrderStatus = "REJECTED"
)

// 拒绝原因
const (
	ReasonInsufficientFunds    = "INSUFFICIENT_FUNDS"
	ReasonInsufficientQuantity = "INSUFFICIENT_QUANTITY"
)

type OrderExecuteReq struct {
	Symbol   string  `json:"symbol" binding:"required"`
	Side     string  `json:"side" binding:"required,oneof=BUY SELL"`
	Quantity int64   `json:"quantity" binding:"required,gt=0"`
	Price    float64 `json:"price"`    // 0表示未指定，由网关解析；用户显式价格优先
	Strategy string  `json:"strategy"` // 策略标签，可选
}

// ExecutionResult 一次下单的执行结果
type ExecutionResult struct {
	OrderId  string      `json:"order_id"`
	Symbol   string      `json:"symbol"`
	Side     OrderSide   `json:"side"`
	Quantity int64       `json:"quantity"`
	Price    float64     `json:"price"` // 实际成交价
	Status   OrderStatus `json:"status"`
	Reason   string      `json:"reason,omitempty"`
	Cash     float64     `json:"cash"` // 执行后现金余额
	Message  string      `json:"message"`
}

type OrderListReq struct {
	Symbol   string `form:"symbol"`
	Strategy string `form:"strategy"`
	Start    string `form:"start"` // 2006-01-02
	End      string `form:"end"`
}

// OrderFilter 订单查询条件，零值字段不过滤
type OrderFilter struct {
	Symbol   string
	Strategy string
	Start    time.Time
	End      time.Time
}

type OrderStats struct {
	Total int64 `json:"total"`
	Buys  int64 `json:"buys"`
	Sells int64 `json:"sells"`
}
