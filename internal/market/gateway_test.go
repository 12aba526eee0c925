package market

import (
	"context"
	"fmt"
	"testing"
	"time"

	"papertrade/internal/model"
	"papertrade/pkg/errors"
	"papertrade/pkg/errors/ecode"
)

// fakeProvider 可编程的数据源，按调用计数验证缓存命中
type fakeProvider struct {
	quoteCalls   int
	historyCalls int
	fail         bool
	price        float64
}

func (f *fakeProvider) QuoteGet(_ context.Context, symbol string) (model.Quote, error) {
	f.quoteCalls++
	if f.fail {
		return model.Quote{}, fmt.Errorf("connection refused")
	}
	return model.Quote{Symbol: symbol, Price: f.price, FetchedAt: time.Now()}, nil
}

func (f *fakeProvider) HistoryGet(_ context.Context, symbol, rng string) (model.OHLCSeries, error) {
	f.historyCalls++
	if f.fail {
		return model.OHLCSeries{}, fmt.Errorf("connection refused")
	}
	return model.OHLCSeries{Symbol: symbol, Range: rng, Candles: []model.Kline{{Close: f.price}}}, nil
}

func (f *fakeProvider) FundamentalsGet(_ context.Context, symbol string) (model.Fundamentals, error) {
	if f.fail {
		return model.Fundamentals{}, fmt.Errorf("connection refused")
	}
	return model.Fundamentals{Symbol: symbol}, nil
}

func (f *fakeProvider) SymbolsGet(_ context.Context) ([]string, error) {
	if f.fail {
		return nil, fmt.Errorf("connection refused")
	}
	return []string{"INFY", "TCS"}, nil
}

func TestGateway_QuoteCaching(t *testing.T) {
	p := &fakeProvider{price: 100}
	g := NewGateway(p, time.Hour, time.Hour)
	ctx := context.Background()

	q, err := g.Quote(ctx, "TCS")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Price != 100 || q.Stale {
		t.Fatalf("quote = %+v", q)
	}

	// TTL内重复请求直接走缓存
	p.price = 200
	q, _ = g.Quote(ctx, "TCS")
	if q.Price != 100 {
		t.Fatalf("cache miss within ttl: %+v", q)
	}
	if p.quoteCalls != 1 {
		t.Fatalf("provider called %d times", p.quoteCalls)
	}
}

func TestGateway_QuoteStaleFallback(t *testing.T) {
	p := &fakeProvider{price: 100}
	g := NewGateway(p, 20*time.Millisecond, time.Hour)
	ctx := context.Background()

	if _, err := g.Quote(ctx, "TCS"); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	// 数据源挂了，带回过期值 + DataUnavailable
	p.fail = true
	q, err := g.Quote(ctx, "TCS")
	if !errors.IsCode(err, ecode.DataUnavailable) {
		t.Fatalf("want DataUnavailable, got %v", err)
	}
	if !q.Stale || q.Price != 100 {
		t.Fatalf("stale fallback = %+v", q)
	}

	// 没有任何缓存值时只有错误
	q, err = g.Quote(ctx, "INFY")
	if !errors.IsCode(err, ecode.DataUnavailable) || q.Price != 0 {
		t.Fatalf("cold failure: q=%+v err=%v", q, err)
	}
}

func TestGateway_HistoryRangeValidation(t *testing.T) {
	p := &fakeProvider{price: 100}
	g := NewGateway(p, time.Hour, time.Hour)
	ctx := context.Background()

	if _, err := g.History(ctx, "TCS", "7y"); !errors.IsCode(err, ecode.InvalidInput) {
		t.Fatalf("bad range: %v", err)
	}
	if p.historyCalls != 0 {
		t.Fatal("provider hit for invalid range")
	}

	s, err := g.History(ctx, "TCS", "6mo")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(s.Candles) != 1 {
		t.Fatalf("series = %+v", s)
	}

	// range不同是不同缓存键
	if _, err := g.History(ctx, "TCS", "1y"); err != nil {
		t.Fatalf("History 1y: %v", err)
	}
	if p.historyCalls != 2 {
		t.Fatalf("history calls = %d", p.historyCalls)
	}
}

func TestGateway_Symbols(t *testing.T) {
	p := &fakeProvider{}
	g := NewGateway(p, time.Hour, 20*time.Millisecond)
	ctx := context.Background()

	syms, err := g.Symbols(ctx)
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}
	if len(syms) != 2 {
		t.Fatalf("symbols = %v", syms)
	}

	time.Sleep(30 * time.Millisecond)
	p.fail = true
	syms, err = g.Symbols(ctx)
	if !errors.IsCode(err, ecode.DataUnavailable) {
		t.Fatalf("want DataUnavailable, got %v", err)
	}
	if len(syms) != 2 {
		t.Fatalf("stale symbols = %v", syms)
	}
}
