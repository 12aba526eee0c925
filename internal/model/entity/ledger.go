package entity

import "time"

// 账本三张表：现金余额（单行）、持仓、订单流水
// orders 只追加不修改，构成完整的审计记录

type CashBalance struct {
	Id      int64   `gorm:"column:id;primary_key" json:"id"`
	Balance float64 `gorm:"column:balance;not null" json:"balance"`
}

func (CashBalance) TableName() string {
	return "cash_balance"
}

// 现金余额固定只有一行
const CashBalanceRowId = 1

type Holding struct {
	Symbol   string  `gorm:"column:symbol;primary_key" json:"symbol"`
	Quantity int64   `gorm:"column:quantity;not null" json:"quantity"`
	AvgPrice float64 `gorm:"column:avg_price;not null" json:"avg_price"` // 加权平均成本
}

func (Holding) TableName() string {
	return "holdings"
}

type OrderRecord struct {
	Id        int64     `gorm:"column:id;primary_key;autoIncrement" json:"id"`
	OrderId   string    `gorm:"column:order_id" json:"order_id"` // snowflake id
	Symbol    string    `gorm:"column:symbol;not null" json:"symbol"`
	OrderType string    `gorm:"column:order_type;not null" json:"order_type"` // BUY / SELL
	Quantity  int64     `gorm:"column:quantity;not null" json:"quantity"`
	Price     float64   `gorm:"column:price;not null" json:"price"`
	Timestamp time.Time `gorm:"column:timestamp;not null" json:"timestamp"`
	Status    string    `gorm:"column:status;not null" json:"status"` // FILLED / REJECTED
	Reason    string    `gorm:"column:reason" json:"reason"`          // 拒绝原因，成交时为空
	Strategy  string    `gorm:"column:strategy" json:"strategy"`      // 策略标签，可选
}

func (OrderRecord) TableName() string {
	return "orders"
}
