package query

import (
	"context"

	"papertrade/internal/dao"
	"papertrade/internal/model"
	"papertrade/internal/model/entity"
	"papertrade/pkg/errors"
	"papertrade/pkg/errors/ecode"

	"gorm.io/gorm"
)

var _ dao.LedgerDao = (*ledgerDao)(nil)

type ledgerDao struct {
	ds *gorm.DB
}

func NewLedgerDao(ds *gorm.DB) *ledgerDao {
	return &ledgerDao{
		ds: ds,
	}
}

func (l *ledgerDao) CashGet(ctx context.Context) (float64, error) {
	var balance float64
	err := l.ds.WithContext(ctx).Model(&entity.CashBalance{}).
		Where("id = ?", entity.CashBalanceRowId).
		Select("balance").
		Find(&balance).Error
	return balance, err
}

func (l *ledgerDao) CashSet(ctx context.Context, amount float64) error {
	if amount < 0 {
		return errors.WithCode(ecode.InvalidState, "cash balance cannot go negative: %.2f", amount)
	}
	return l.ds.WithContext(ctx).Model(&entity.CashBalance{}).
		Where("id = ?", entity.CashBalanceRowId).
		Update("balance", amount).Error
}

func (l *ledgerDao) HoldingGet(ctx context.Context, symbol string) (entity.Holding, bool, error) {
	var holding entity.Holding
	err := l.ds.WithContext(ctx).Where("symbol = ?", symbol).First(&holding).Error
	if err == gorm.ErrRecordNotFound {
		return entity.Holding{}, false, nil
	}
	if err != nil {
		return entity.Holding{}, false, err
	}
	return holding, true, nil
}

func (l *ledgerDao) HoldingsGetAll(ctx context.Context) ([]entity.Holding, error) {
	var holdings []entity.Holding
	err := l.ds.WithContext(ctx).Order("symbol ASC").Find(&holdings).Error
	return holdings, err
}

func (l *ledgerDao) HoldingUpsert(ctx context.Context, symbol string, quantity int64, avgPrice float64) error {
	// 数量归零的持仓直接删行，不保留零数量记录
	if quantity <= 0 {
		return l.ds.WithContext(ctx).Where("symbol = ?", symbol).Delete(&entity.Holding{}).Error
	}
	var existing entity.Holding
	err := l.ds.WithContext(ctx).Where("symbol = ?", symbol).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return l.ds.WithContext(ctx).Create(&entity.Holding{
			Symbol:   symbol,
			Quantity: quantity,
			AvgPrice: avgPrice,
		}).Error
	}
	if err != nil {
		return err
	}
	return l.ds.WithContext(ctx).Model(&entity.Holding{}).
		Where("symbol = ?", symbol).
		Updates(map[string]interface{}{"quantity": quantity, "avg_price": avgPrice}).Error
}

func (l *ledgerDao) OrderAppend(ctx context.Context, record *entity.OrderRecord) error {
	return l.ds.WithContext(ctx).Create(record).Error
}

func (l *ledgerDao) OrdersList(ctx context.Context, filter model.OrderFilter) ([]entity.OrderRecord, error) {
	q := l.ds.WithContext(ctx).Model(&entity.OrderRecord{})
	if filter.Symbol != "" {
		q = q.Where("symbol = ?", filter.Symbol)
	}
	if filter.Strategy != "" {
		q = q.Where("strategy = ?", filter.Strategy)
	}
	if !filter.Start.IsZero() {
		q = q.Where("timestamp >= ?", filter.Start)
	}
	if !filter.End.IsZero() {
		q = q.Where("timestamp < ?", filter.End)
	}
	var records []entity.OrderRecord
	err := q.Order("timestamp DESC, id DESC").Find(&records).Error
	return records, err
}

func (l *ledgerDao) OrderStats(ctx context.Context) (model.OrderStats, error) {
	var stats model.OrderStats
	if err := l.ds.WithContext(ctx).Model(&entity.OrderRecord{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := l.ds.WithContext(ctx).Model(&entity.OrderRecord{}).Where("order_type = ?", model.Buy).Count(&stats.Buys).Error; err != nil {
		return stats, err
	}
	err := l.ds.WithContext(ctx).Model(&entity.OrderRecord{}).Where("order_type = ?", model.Sell).Count(&stats.Sells).Error
	return stats, err
}

func (l *ledgerDao) Transaction(ctx context.Context, fn func(tx dao.LedgerDao) error) error {
	return l.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerDao{ds: tx})
	})
}
