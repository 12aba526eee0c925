package ecode

// 业务错误码定义 0表示无错误
const (
	Success = 0

	// 通用错误
	Unknown        = 10001
	ValidateErr    = 10002
	RequireAuthErr = 10003
	TooManyReqErr  = 10004

	// 交易、账本相关错误
	InvalidInput         = 20001 // 非法参数（数量、价格、symbol）
	InsufficientFunds    = 20002 // 可用资金不足
	InsufficientQuantity = 20003 // 持仓数量不足
	DataUnavailable      = 20004 // 行情数据源不可用
	InvalidState         = 20005 // 账本状态非法（如负余额）
)

var messages = map[int]string{
	Success:              "OK",
	Unknown:              "internal error",
	ValidateErr:          "validation failed",
	RequireAuthErr:       "authentication required",
	TooManyReqErr:        "too many requests",
	InvalidInput:         "invalid input",
	InsufficientFunds:    "insufficient funds",
	InsufficientQuantity: "insufficient quantity",
	DataUnavailable:      "market data unavailable",
	InvalidState:         "invalid ledger state",
}

// Text 返回错误码对应的默认提示信息
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[Unknown]
}
