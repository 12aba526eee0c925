package market

import (
	"papertrade/internal/model"

	"github.com/markcheno/go-talib"
)

// SMA 对收盘价序列计算简单移动平均
// 序列长度不足周期时返回nil，前period-1个点为0（talib约定）
func SMA(candles []model.Kline, period int) []float64 {
	if period <= 0 || len(candles) < period {
		return nil
	}
	closes := make([]float64, len(candles))
	for i, k := range candles {
		closes[i] = k.Close
	}
	return talib.Sma(closes, period)
}
