package dao

import (
	"context"

	"papertrade/internal/model"
	"papertrade/internal/model/entity"
)

// LedgerDao 账本存储，现金、持仓、订单三张表的唯一拥有者
// 单写者假设：除本进程外没有并发写入方
type LedgerDao interface {
	// 读取现金余额
	CashGet(ctx context.Context) (float64, error)
	// 设置现金余额，负数返回InvalidState且不写入
	CashSet(ctx context.Context, amount float64) error
	// 按symbol读取持仓，不存在时found为false
	HoldingGet(ctx context.Context, symbol string) (holding entity.Holding, found bool, err error)
	// 读取全部持仓
	HoldingsGetAll(ctx context.Context) ([]entity.Holding, error)
	// 写入持仓；quantity <= 0 时删除该行而不是写零
	HoldingUpsert(ctx context.Context, symbol string, quantity int64, avgPrice float64) error
	// 追加订单流水，只插入，从不更新或删除已有行
	OrderAppend(ctx context.Context, record *entity.OrderRecord) error
	// 按条件查询订单，时间倒序
	OrdersList(ctx context.Context, filter model.OrderFilter) ([]entity.OrderRecord, error)
	// 订单数量统计
	OrderStats(ctx context.Context) (model.OrderStats, error)
	// 在单个数据库事务内执行fn，fn返回错误则整体回滚
	Transaction(ctx context.Context, fn func(tx LedgerDao) error) error
}
