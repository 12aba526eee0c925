package market

import (
	"math"
	"testing"

	"papertrade/internal/model"
)

func TestSMA(t *testing.T) {
	candles := make([]model.Kline, 5)
	for i, close := range []float64{10, 20, 30, 40, 50} {
		candles[i].Close = close
	}

	out := SMA(candles, 3)
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5", len(out))
	}
	// talib约定：前period-1个点为0
	if out[0] != 0 || out[1] != 0 {
		t.Fatalf("warmup values = %v", out[:2])
	}
	want := []float64{20, 30, 40}
	for i, w := range want {
		if math.Abs(out[i+2]-w) > 1e-9 {
			t.Fatalf("sma[%d] = %v, want %v", i+2, out[i+2], w)
		}
	}

	if SMA(candles, 6) != nil {
		t.Fatal("period longer than series should return nil")
	}
	if SMA(nil, 3) != nil {
		t.Fatal("empty series should return nil")
	}
}
