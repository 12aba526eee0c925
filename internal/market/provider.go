package market

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"papertrade/internal/consts"
	"papertrade/internal/model"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// Provider 行情数据源，每个方法都只发起一次请求，失败立即上报不重试
// 重试与否由调用方（网关）的缓存策略决定
type Provider interface {
	QuoteGet(ctx context.Context, symbol string) (model.Quote, error)
	HistoryGet(ctx context.Context, symbol, rng string) (model.OHLCSeries, error)
	FundamentalsGet(ctx context.Context, symbol string) (model.Fundamentals, error)
	SymbolsGet(ctx context.Context) ([]string, error)
}

// Client 封装了和行情数据源公开 REST API 的通信
// NSE股票在数据源侧带 .NS 后缀
type Client struct {
	httpClient  *http.Client
	baseURL     string
	symbolsURL  string
	symbolsFile string
}

var _ Provider = (*Client)(nil)

type ClientConfig struct {
	BaseURL     string
	Timeout     time.Duration
	SymbolsURL  string
	SymbolsFile string
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	symbolsURL := cfg.SymbolsURL
	if symbolsURL == "" {
		symbolsURL = "https://nsearchives.nseindia.com/content/equities/sec_list.csv"
	}
	symbolsFile := cfg.SymbolsFile
	if symbolsFile == "" {
		symbolsFile = "sec_list.csv"
	}
	return &Client{
		baseURL:     baseURL,
		symbolsURL:  symbolsURL,
		symbolsFile: symbolsFile,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// 数据源chart接口的响应结构
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// QuoteGet 获取最新价
// 取价顺序：盘中价 → 前收盘 → 序列里最后一个收盘价，全部缺失视为失败
func (c *Client) QuoteGet(ctx context.Context, symbol string) (model.Quote, error) {
	var res chartResponse
	endpoint := fmt.Sprintf("/v8/finance/chart/%s?range=1d&interval=1d",
		url.PathEscape(symbol+consts.NSESuffix))
	if err := c.doGet(ctx, endpoint, &res); err != nil {
		return model.Quote{}, err
	}
	if res.Chart.Error != nil {
		return model.Quote{}, fmt.Errorf("provider error for %s: %s", symbol, res.Chart.Error.Description)
	}
	if len(res.Chart.Result) == 0 {
		return model.Quote{}, fmt.Errorf("empty chart result for %s", symbol)
	}
	r := res.Chart.Result[0]

	price := r.Meta.RegularMarketPrice
	if price <= 0 {
		price = r.Meta.PreviousClose
	}
	if price <= 0 && len(r.Indicators.Quote) > 0 {
		closes := r.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] != nil && *closes[i] > 0 {
				price = *closes[i]
				break
			}
		}
	}
	if price <= 0 {
		return model.Quote{}, fmt.Errorf("no usable price for %s", symbol)
	}
	return model.Quote{
		Symbol:    symbol,
		Price:     price,
		FetchedAt: time.Now(),
	}, nil
}

// HistoryGet 获取日线历史
func (c *Client) HistoryGet(ctx context.Context, symbol, rng string) (model.OHLCSeries, error) {
	var res chartResponse
	endpoint := fmt.Sprintf("/v8/finance/chart/%s?range=%s&interval=1d",
		url.PathEscape(symbol+consts.NSESuffix), url.QueryEscape(rng))
	if err := c.doGet(ctx, endpoint, &res); err != nil {
		return model.OHLCSeries{}, err
	}
	if res.Chart.Error != nil {
		return model.OHLCSeries{}, fmt.Errorf("provider error for %s: %s", symbol, res.Chart.Error.Description)
	}
	if len(res.Chart.Result) == 0 || len(res.Chart.Result[0].Indicators.Quote) == 0 {
		return model.OHLCSeries{}, fmt.Errorf("empty history for %s", symbol)
	}

	r := res.Chart.Result[0]
	q := r.Indicators.Quote[0]
	series := model.OHLCSeries{
		Symbol:  symbol,
		Range:   rng,
		Candles: make([]model.Kline, 0, len(r.Timestamp)),
	}
	for i, ts := range r.Timestamp {
		// 停牌日数据源给null，跳过
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		k := model.Kline{
			Timestamp: time.Unix(ts, 0),
			Close:     *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			k.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			k.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			k.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			k.Volume = *q.Volume[i]
		}
		series.Candles = append(series.Candles, k)
	}
	if len(series.Candles) == 0 {
		return model.OHLCSeries{}, fmt.Errorf("empty history for %s", symbol)
	}
	return series, nil
}

// FundamentalsGet 获取基本面数据
// 数据源各模块字段是动态的，缺失字段在返回值里保持nil
func (c *Client) FundamentalsGet(ctx context.Context, symbol string) (model.Fundamentals, error) {
	var res struct {
		QuoteSummary struct {
			Result []map[string]map[string]interface{} `json:"result"`
			Error  *struct {
				Description string `json:"description"`
			} `json:"error"`
		} `json:"quoteSummary"`
	}
	endpoint := fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=summaryDetail,financialData,defaultKeyStatistics,assetProfile",
		url.PathEscape(symbol+consts.NSESuffix))
	if err := c.doGet(ctx, endpoint, &res); err != nil {
		return model.Fundamentals{}, err
	}
	if res.QuoteSummary.Error != nil {
		return model.Fundamentals{}, fmt.Errorf("provider error for %s: %s", symbol, res.QuoteSummary.Error.Description)
	}
	if len(res.QuoteSummary.Result) == 0 {
		return model.Fundamentals{}, fmt.Errorf("empty fundamentals for %s", symbol)
	}

	modules := res.QuoteSummary.Result[0]
	summary := modules["summaryDetail"]
	keyStats := modules["defaultKeyStatistics"]
	financial := modules["financialData"]
	profile := modules["assetProfile"]

	f := model.Fundamentals{Symbol: symbol}
	f.PERatio = rawNumber(summary, "trailingPE")
	f.PBRatio = rawNumber(keyStats, "priceToBook")
	f.MarketCap = rawNumber(summary, "marketCap")
	f.ROE = rawNumber(financial, "returnOnEquity")
	f.DebtEquity = rawNumber(financial, "debtToEquity")
	f.DividendYield = rawNumber(summary, "dividendYield")
	f.Week52High = rawNumber(summary, "fiftyTwoWeekHigh")
	f.Week52Low = rawNumber(summary, "fiftyTwoWeekLow")
	f.AvgVolume = rawNumber(summary, "averageVolume")
	f.Sector = plainString(profile, "sector")
	f.Industry = plainString(profile, "industry")
	return f, nil
}

// rawNumber 从模块里取 {"raw":123,"fmt":"123"} 形式的数值字段
// 字段缺失或类型不对返回nil，表示"未知"
func rawNumber(module map[string]interface{}, field string) *float64 {
	if module == nil {
		return nil
	}
	v, ok := module[field]
	if !ok {
		return nil
	}
	wrapper, ok := v.(map[string]interface{})
	if !ok {
		// 个别字段直接给数字
		if n, err := cast.ToFloat64E(v); err == nil {
			return &n
		}
		return nil
	}
	raw, ok := wrapper["raw"]
	if !ok {
		return nil
	}
	n, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil
	}
	return &n
}

func plainString(module map[string]interface{}, field string) *string {
	if module == nil {
		return nil
	}
	v, ok := module[field]
	if !ok {
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return nil
	}
	return &s
}

// doGet 执行通用的 GET 请求，处理 JSON 解析和错误
func (c *Client) doGet(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}
