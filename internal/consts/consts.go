package consts

const (
	// RequestId 请求id名称
	RequestId = "request_id"
	// 鉴权通过后注入context的主题
	AuthSubject = "auth_subject"
	JWTTokenCtx = "token_ctx"

	DateLayout   = "2006-01-02"
	TimeLayout   = "2006-01-02 15:04:05"
	TimeLayoutMs = "2006-01-02 15:04:05.000"
)

const (
	// DefaultStartingCash 初始虚拟资金 ₹5,00,000
	DefaultStartingCash = 500000.0

	// NSE股票代码在数据源的后缀
	NSESuffix = ".NS"
)

// 历史K线区间
const (
	Range1Mo = "1mo"
	Range3Mo = "3mo"
	Range6Mo = "6mo"
	Range1Y  = "1y"
	Range3Y  = "3y"
)

// ValidRanges 支持的历史区间集合
var ValidRanges = map[string]struct{}{
	Range1Mo: {},
	Range3Mo: {},
	Range6Mo: {},
	Range1Y:  {},
	Range3Y:  {},
}
