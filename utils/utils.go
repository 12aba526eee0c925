package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"papertrade/internal/consts"
)

// FormatINR 按印度习惯格式化金额（lakh/crore分组：1,23,45,678.90）
func FormatINR(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole := int64(math.Floor(amount))
	frac := int64(math.Round((amount - float64(whole)) * 100))
	if frac >= 100 {
		whole++
		frac -= 100
	}

	digits := strconv.FormatInt(whole, 10)
	var grouped string
	if len(digits) <= 3 {
		grouped = digits
	} else {
		// 末尾三位一组，之后每两位一组
		grouped = digits[len(digits)-3:]
		rest := digits[:len(digits)-3]
		for len(rest) > 2 {
			grouped = rest[len(rest)-2:] + "," + grouped
			rest = rest[:len(rest)-2]
		}
		grouped = rest + "," + grouped
	}
	return fmt.Sprintf("%s₹%s.%02d", sign, grouped, frac)
}

// NormalizeSymbol 统一为大写并去掉数据源的.NS后缀
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	return strings.TrimSuffix(s, consts.NSESuffix)
}
