package market

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"papertrade/pkg/logger"
)

// NSE证券列表：优先从交易所档案下载并落盘，失败时退回本地副本，
// 再不行退回内置的大盘股清单（和原始应用一致的兜底顺序）

var fallbackSymbols = []string{
	"RELIANCE", "TCS", "HDFCBANK", "INFY", "HINDUNILVR", "ICICIBANK", "KOTAKBANK",
	"BHARTIARTL", "ITC", "SBIN", "LT", "ASIANPAINT", "AXISBANK", "MARUTI", "NESTLEIND",
	"HCLTECH", "WIPRO", "ULTRACEMCO", "BAJFINANCE", "TITAN", "SUNPHARMA", "ONGC",
	"NTPC", "POWERGRID", "TECHM", "TATAMOTORS", "COALINDIA", "BAJAJFINSV", "HDFCLIFE",
}

func (c *Client) SymbolsGet(ctx context.Context) ([]string, error) {
	symbols, err := c.downloadSymbols(ctx)
	if err == nil {
		return symbols, nil
	}
	logger.Warnf("symbol list download failed, trying local copy: %v", err)

	if symbols, err := readSymbolsCSV(c.symbolsFile); err == nil {
		return symbols, nil
	}

	out := make([]string, len(fallbackSymbols))
	copy(out, fallbackSymbols)
	sort.Strings(out)
	return out, nil
}

func (c *Client) downloadSymbols(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.symbolsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("symbol list returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	// 保存本地副本，供下次下载失败时兜底
	if err := os.WriteFile(c.symbolsFile, data, 0o644); err != nil {
		logger.Warnf("save symbol list copy failed (ignored): %v", err)
	}
	return parseSymbolsCSV(strings.NewReader(string(data)))
}

func readSymbolsCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseSymbolsCSV(f)
}

func parseSymbolsCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	symbolCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "Symbol") {
			symbolCol = i
			break
		}
	}
	if symbolCol < 0 {
		return nil, fmt.Errorf("csv has no Symbol column")
	}

	seen := make(map[string]struct{})
	var symbols []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if symbolCol >= len(record) {
			continue
		}
		sym := strings.TrimSpace(record[symbolCol])
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("csv contains no symbols")
	}
	sort.Strings(symbols)
	return symbols, nil
}
