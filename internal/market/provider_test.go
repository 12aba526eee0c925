package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const chartBody = `{
  "chart": {
    "result": [{
      "meta": {"regularMarketPrice": 2845.5, "chartPreviousClose": 2830.0},
      "timestamp": [1704085200, 1704171600, 1704258000],
      "indicators": {"quote": [{
        "open":   [2800.0, 2820.0, null],
        "high":   [2850.0, 2860.0, null],
        "low":    [2790.0, 2810.0, null],
        "close":  [2830.0, 2845.5, null],
        "volume": [1000000, 1200000, null]
      }]}
    }],
    "error": null
  }
}`

const quoteSummaryBody = `{
  "quoteSummary": {
    "result": [{
      "summaryDetail": {
        "trailingPE": {"raw": 28.4, "fmt": "28.40"},
        "marketCap": {"raw": 1925000000000, "fmt": "19.25T"},
        "fiftyTwoWeekHigh": {"raw": 3024.9}
      },
      "financialData": {
        "returnOnEquity": {"raw": 0.089}
      },
      "assetProfile": {
        "sector": "Energy",
        "industry": "Oil & Gas Refining & Marketing"
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		BaseURL:     srv.URL,
		Timeout:     2 * time.Second,
		SymbolsFile: t.TempDir() + "/sec_list.csv",
	})
}

func TestClient_QuoteGet(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(chartBody))
	})

	q, err := c.QuoteGet(context.Background(), "RELIANCE")
	if err != nil {
		t.Fatalf("QuoteGet: %v", err)
	}
	// NSE股票在数据源侧带.NS后缀，返回结果不带
	if !strings.Contains(gotPath, "RELIANCE.NS") {
		t.Fatalf("request path = %q", gotPath)
	}
	if q.Symbol != "RELIANCE" || q.Price != 2845.5 {
		t.Fatalf("quote = %+v", q)
	}
}

func TestClient_QuoteGet_PriceFallback(t *testing.T) {
	// 盘中价缺失时退到前收盘
	body := strings.Replace(chartBody, `"regularMarketPrice": 2845.5`, `"regularMarketPrice": 0`, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
	q, err := c.QuoteGet(context.Background(), "RELIANCE")
	if err != nil {
		t.Fatalf("QuoteGet: %v", err)
	}
	if q.Price != 2830.0 {
		t.Fatalf("fallback price = %v", q.Price)
	}
}

func TestClient_QuoteGet_ProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	})
	if _, err := c.QuoteGet(context.Background(), "BOGUS"); err == nil {
		t.Fatal("want error for provider-side failure")
	}

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	if _, err := c.QuoteGet(context.Background(), "RELIANCE"); err == nil {
		t.Fatal("want error for non-200 status")
	}
}

func TestClient_HistoryGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartBody))
	})

	s, err := c.HistoryGet(context.Background(), "RELIANCE", "6mo")
	if err != nil {
		t.Fatalf("HistoryGet: %v", err)
	}
	// 第三根K线close为null（停牌日），应被跳过
	if len(s.Candles) != 2 {
		t.Fatalf("candles = %d, want 2", len(s.Candles))
	}
	if s.Candles[0].Open != 2800.0 || s.Candles[1].Close != 2845.5 {
		t.Fatalf("candles = %+v", s.Candles)
	}
	if s.Range != "6mo" || s.Symbol != "RELIANCE" {
		t.Fatalf("series meta = %+v", s)
	}
}

func TestClient_FundamentalsGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quoteSummaryBody))
	})

	f, err := c.FundamentalsGet(context.Background(), "RELIANCE")
	if err != nil {
		t.Fatalf("FundamentalsGet: %v", err)
	}
	if f.PERatio == nil || *f.PERatio != 28.4 {
		t.Fatalf("pe = %v", f.PERatio)
	}
	if f.ROE == nil || *f.ROE != 0.089 {
		t.Fatalf("roe = %v", f.ROE)
	}
	if f.Sector == nil || *f.Sector != "Energy" {
		t.Fatalf("sector = %v", f.Sector)
	}
	// 数据源没给的字段保持nil，不编造
	if f.PBRatio != nil || f.DividendYield != nil {
		t.Fatalf("missing fields fabricated: %+v", f)
	}
}

func TestParseSymbolsCSV(t *testing.T) {
	csv := "Symbol,Name of Company, Series\nRELIANCE,Reliance Industries,EQ\nTCS,Tata Consultancy,EQ\nRELIANCE,dup row,EQ\n"
	symbols, err := parseSymbolsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parseSymbolsCSV: %v", err)
	}
	if len(symbols) != 2 || symbols[0] != "RELIANCE" || symbols[1] != "TCS" {
		t.Fatalf("symbols = %v", symbols)
	}
}
