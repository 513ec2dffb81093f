package yahoo

// defaultDividendTickers is the built-in scan universe.
// 배당 귀족 + 고배당 대형주 위주. S&P 500 구성종목 중 배당수익률이
// 높고 배당 이력이 안정적인 대형주를 선별해 스캔 효율을 높인다.
// YAHOO_TICKERS 환경변수로 교체 가능.
var defaultDividendTickers = []string{
	// 헬스케어
	"JNJ", "PFE", "ABBV", "MRK", "BMY", "AMGN", "GILD",
	// 소비재
	"KO", "PEP", "PG", "CL", "MO", "PM", "KMB",
	// 통신/유틸리티
	"T", "VZ", "SO", "DUK", "NEE", "D", "AEP", "XEL",
	// 에너지
	"XOM", "CVX", "COP", "EOG", "SLB", "PSX",
	// 금융
	"JPM", "BAC", "WFC", "C", "USB", "PNC", "TFC",
	// 산업재
	"MMM", "CAT", "HON", "RTX", "LMT", "GD",
	// 기술 (배당 지급)
	"IBM", "CSCO", "TXN", "AVGO", "INTC", "QCOM",
	// REITs / 배당 ETF 대용
	"O", "SCHD", "VYM",
	// 기타 고배당
	"DOW", "LYB", "KHC", "F",
}

// DefaultTickers returns a copy of the built-in universe
func DefaultTickers() []string {
	out := make([]string, len(defaultDividendTickers))
	copy(out, defaultDividendTickers)
	return out
}
