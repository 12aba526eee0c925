package market

import (
	"context"
	"time"

	"papertrade/internal/consts"
	"papertrade/internal/model"
	"papertrade/pkg/cache"
	"papertrade/pkg/errors"
	"papertrade/pkg/errors/ecode"
	"papertrade/pkg/logger"
)

// Gateway 行情网关，所有外部行情读取的唯一入口
// 报价缓存30分钟，历史和基本面缓存24小时；数据源故障返回带
// DataUnavailable错误码的typed error，绝不向上抛未处理的异常。
// 有过期缓存值时会附在返回值里（Stale=true）作为降级提示。
type Gateway struct {
	provider Provider

	quotes  *cache.TTLCache[string, model.Quote]
	history *cache.TTLCache[historyKey, model.OHLCSeries]
	funds   *cache.TTLCache[string, model.Fundamentals]
	symbols *cache.TTLCache[string, []string]
}

type historyKey struct {
	symbol string
	rng    string
}

const symbolsCacheKey = "nse_all"

func NewGateway(p Provider, quoteTTL, historyTTL time.Duration) *Gateway {
	return &Gateway{
		provider: p,
		quotes:   cache.NewTTL[string, model.Quote](quoteTTL),
		history:  cache.NewTTL[historyKey, model.OHLCSeries](historyTTL),
		funds:    cache.NewTTL[string, model.Fundamentals](historyTTL),
		symbols:  cache.NewTTL[string, []string](historyTTL),
	}
}

// Quote 获取最新价，缓存30分钟
func (g *Gateway) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	if q, ok := g.quotes.Get(symbol); ok {
		return q, nil
	}
	q, err := g.provider.QuoteGet(ctx, symbol)
	if err != nil {
		logger.Warnf("quote fetch failed for %s: %v", symbol, err)
		// 有过期值就带回去，调用方自行决定是否展示
		if stale, at, ok := g.quotes.GetStale(symbol); ok {
			stale.Stale = true
			stale.FetchedAt = at
			return stale, errors.Wrap(err, ecode.DataUnavailable, "quote unavailable for "+symbol)
		}
		return model.Quote{}, errors.Wrap(err, ecode.DataUnavailable, "quote unavailable for "+symbol)
	}
	g.quotes.Set(symbol, q)
	return q, nil
}

// History 获取日线历史，缓存24小时
func (g *Gateway) History(ctx context.Context, symbol, rng string) (model.OHLCSeries, error) {
	if _, ok := consts.ValidRanges[rng]; !ok {
		return model.OHLCSeries{}, errors.WithCode(ecode.InvalidInput, "unsupported range %q", rng)
	}
	key := historyKey{symbol: symbol, rng: rng}
	if s, ok := g.history.Get(key); ok {
		return s, nil
	}
	s, err := g.provider.HistoryGet(ctx, symbol, rng)
	if err != nil {
		logger.Warnf("history fetch failed for %s %s: %v", symbol, rng, err)
		if stale, _, ok := g.history.GetStale(key); ok {
			return stale, errors.Wrap(err, ecode.DataUnavailable, "history unavailable for "+symbol)
		}
		return model.OHLCSeries{}, errors.Wrap(err, ecode.DataUnavailable, "history unavailable for "+symbol)
	}
	g.history.Set(key, s)
	return s, nil
}

// Fundamentals 获取基本面快照，缺失字段为nil
func (g *Gateway) Fundamentals(ctx context.Context, symbol string) (model.Fundamentals, error) {
	if f, ok := g.funds.Get(symbol); ok {
		return f, nil
	}
	f, err := g.provider.FundamentalsGet(ctx, symbol)
	if err != nil {
		logger.Warnf("fundamentals fetch failed for %s: %v", symbol, err)
		if stale, _, ok := g.funds.GetStale(symbol); ok {
			return stale, errors.Wrap(err, ecode.DataUnavailable, "fundamentals unavailable for "+symbol)
		}
		return model.Fundamentals{}, errors.Wrap(err, ecode.DataUnavailable, "fundamentals unavailable for "+symbol)
	}
	g.funds.Set(symbol, f)
	return f, nil
}

// Symbols 获取NSE证券列表
// provider层自带本地副本和内置清单兜底，这里只做时间缓存
func (g *Gateway) Symbols(ctx context.Context) ([]string, error) {
	if s, ok := g.symbols.Get(symbolsCacheKey); ok {
		return s, nil
	}
	s, err := g.provider.SymbolsGet(ctx)
	if err != nil {
		if stale, _, ok := g.symbols.GetStale(symbolsCacheKey); ok {
			return stale, errors.Wrap(err, ecode.DataUnavailable, "symbol list unavailable")
		}
		return nil, errors.Wrap(err, ecode.DataUnavailable, "symbol list unavailable")
	}
	g.symbols.Set(symbolsCacheKey, s)
	return s, nil
}
