package query

import (
	"context"
	"testing"
	"time"

	"papertrade/internal/dao"
	"papertrade/internal/model"
	"papertrade/internal/model/entity"
	"papertrade/pkg/db"
	"papertrade/pkg/errors/ecode"
	pkgerrors "papertrade/pkg/errors"
)

func newTestDao(t *testing.T) *ledgerDao {
	t.Helper()
	ds, err := db.Open(db.Config{Path: ":memory:", StartingCash: 500000})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(ds) })
	return NewLedgerDao(ds)
}

func TestLedgerDao_Cash(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()

	cash, err := d.CashGet(ctx)
	if err != nil {
		t.Fatalf("CashGet: %v", err)
	}
	if cash != 500000 {
		t.Fatalf("starting cash = %v, want 500000", cash)
	}

	if err := d.CashSet(ctx, 123456.78); err != nil {
		t.Fatalf("CashSet: %v", err)
	}
	cash, _ = d.CashGet(ctx)
	if cash != 123456.78 {
		t.Fatalf("cash after set = %v", cash)
	}

	// 余额不允许为负
	err = d.CashSet(ctx, -1)
	if !pkgerrors.IsCode(err, ecode.InvalidState) {
		t.Fatalf("negative cash: got %v, want InvalidState", err)
	}
	cash, _ = d.CashGet(ctx)
	if cash != 123456.78 {
		t.Fatalf("cash changed after rejected set: %v", cash)
	}
}

func TestLedgerDao_HoldingUpsert(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()

	if err := d.HoldingUpsert(ctx, "RELIANCE", 10, 2500); err != nil {
		t.Fatalf("create holding: %v", err)
	}
	h, found, err := d.HoldingGet(ctx, "RELIANCE")
	if err != nil || !found {
		t.Fatalf("HoldingGet: found=%v err=%v", found, err)
	}
	if h.Quantity != 10 || h.AvgPrice != 2500 {
		t.Fatalf("holding = %+v", h)
	}

	// 更新数量和均价
	if err := d.HoldingUpsert(ctx, "RELIANCE", 20, 2600); err != nil {
		t.Fatalf("update holding: %v", err)
	}
	h, _, _ = d.HoldingGet(ctx, "RELIANCE")
	if h.Quantity != 20 || h.AvgPrice != 2600 {
		t.Fatalf("holding after update = %+v", h)
	}

	// 数量归零删行
	if err := d.HoldingUpsert(ctx, "RELIANCE", 0, 2600); err != nil {
		t.Fatalf("zero holding: %v", err)
	}
	_, found, _ = d.HoldingGet(ctx, "RELIANCE")
	if found {
		t.Fatal("zero-quantity holding still present")
	}

	all, err := d.HoldingsGetAll(ctx)
	if err != nil {
		t.Fatalf("HoldingsGetAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("holdings = %+v, want empty", all)
	}
}

func TestLedgerDao_Orders(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	records := []entity.OrderRecord{
		{OrderId: "1", Symbol: "TCS", OrderType: "BUY", Quantity: 5, Price: 4100, Timestamp: base, Status: "FILLED"},
		{OrderId: "2", Symbol: "INFY", OrderType: "SELL", Quantity: 3, Price: 1800, Timestamp: base.Add(time.Hour), Status: "REJECTED", Reason: "INSUFFICIENT_QUANTITY"},
		{OrderId: "3", Symbol: "TCS", OrderType: "BUY", Quantity: 2, Price: 4150, Timestamp: base.Add(2 * time.Hour), Status: "FILLED", Strategy: "manual"},
	}
	for i := range records {
		if err := d.OrderAppend(ctx, &records[i]); err != nil {
			t.Fatalf("OrderAppend: %v", err)
		}
	}

	// 无过滤，时间倒序
	got, err := d.OrdersList(ctx, model.OrderFilter{})
	if err != nil {
		t.Fatalf("OrdersList: %v", err)
	}
	if len(got) != 3 || got[0].OrderId != "3" || got[2].OrderId != "1" {
		t.Fatalf("order listing wrong: %+v", got)
	}

	// symbol过滤
	got, _ = d.OrdersList(ctx, model.OrderFilter{Symbol: "TCS"})
	if len(got) != 2 {
		t.Fatalf("symbol filter: %d records", len(got))
	}

	// 时间窗口过滤，end为开区间
	got, _ = d.OrdersList(ctx, model.OrderFilter{Start: base.Add(30 * time.Minute), End: base.Add(2 * time.Hour)})
	if len(got) != 1 || got[0].OrderId != "2" {
		t.Fatalf("time filter: %+v", got)
	}

	stats, err := d.OrderStats(ctx)
	if err != nil {
		t.Fatalf("OrderStats: %v", err)
	}
	if stats.Total != 3 || stats.Buys != 2 || stats.Sells != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestLedgerDao_TransactionRollback(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()

	err := d.Transaction(ctx, func(tx dao.LedgerDao) error {
		if err := tx.CashSet(ctx, 100); err != nil {
			return err
		}
		if err := tx.HoldingUpsert(ctx, "SBIN", 1, 800); err != nil {
			return err
		}
		// 回滚掉上面两步
		return pkgerrors.WithCode(ecode.Unknown, "boom")
	})
	if err == nil {
		t.Fatal("transaction should propagate error")
	}

	cash, _ := d.CashGet(ctx)
	if cash != 500000 {
		t.Fatalf("cash after rollback = %v", cash)
	}
	_, found, _ := d.HoldingGet(ctx, "SBIN")
	if found {
		t.Fatal("holding survived rollback")
	}
}
