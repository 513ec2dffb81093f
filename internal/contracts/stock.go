package contracts

import "time"

// RiskLevel classifies ex-dividend entry risk
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Recommendation is the investment recommendation tied to a risk level
type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendHold Recommendation = "HOLD"
	RecommendSkip Recommendation = "SKIP"
)

// Recommendation returns the fixed mapping for a risk level
// LOW→BUY, MEDIUM→HOLD, HIGH→SKIP
func (l RiskLevel) Recommendation() Recommendation {
	switch l {
	case RiskLow:
		return RecommendBuy
	case RiskMedium:
		return RecommendHold
	case RiskHigh:
		return RecommendSkip
	}
	return RecommendHold
}

// TechnicalIndicators holds per-ticker technical signal values.
// 모든 필드는 독립적으로 optional: 가격 이력이 짧으면 일부만 채워진다.
type TechnicalIndicators struct {
	RSI14         *float64 `json:"rsi_14"`
	StochasticK   *float64 `json:"stochastic_k"`
	StochasticD   *float64 `json:"stochastic_d"`
	Volatility20D *float64 `json:"volatility_20d"`  // 연환산 (%)
	PriceChange5D *float64 `json:"price_change_5d"` // (%)
	AvgVolume20D  *float64 `json:"avg_volume_20d"`
}

// RiskAssessment is the risk classification for one stock in one scan
type RiskAssessment struct {
	Level          RiskLevel      `json:"risk_level"`
	Reasons        []string       `json:"reasons"` // never empty
	Recommendation Recommendation `json:"recommendation"`
}

// DividendProfitAnalysis holds the post-tax profitability estimate.
// 불변식: NetDividendYield == Gross × (1 − TaxRate/100),
// NetProfitYield == NetDividendYield − EstimatedExDateDrop (2dp 반올림 기준)
type DividendProfitAnalysis struct {
	GrossDividendYield  float64 `json:"gross_dividend_yield"`
	TaxRate             float64 `json:"tax_rate"`
	NetDividendYield    float64 `json:"net_dividend_yield"`
	EstimatedExDateDrop float64 `json:"estimated_ex_date_drop"`
	NetProfitYield      float64 `json:"net_profit_yield"`
	IsProfitable        bool    `json:"is_profitable"`
	Verdict             string  `json:"verdict"`
}

// DividendStock is one ticker's dividend opportunity snapshot.
// 스캔 1회 동안만 존재하며, 각 파이프라인 단계는 enrichment 포인터가
// 채워진 새 값을 반환한다 (in-place 수정 없음).
type DividendStock struct {
	Ticker            string    `json:"ticker"`
	CompanyName       string    `json:"company_name"`
	ExDividendDate    time.Time `json:"ex_dividend_date"`
	DividendYield     float64   `json:"dividend_yield"`  // 세전, %
	DividendAmount    float64   `json:"dividend_amount"` // 연간 합계 ($)
	MarketCap         int64     `json:"market_cap"`
	CurrentPrice      float64   `json:"current_price"`
	LastDividendValue float64   `json:"last_dividend_value"` // 마지막 1회분 배당금 ($)
	URL               string    `json:"url"`

	// Enrichments, attached in order: indicators → risk → profit
	Indicators     *TechnicalIndicators    `json:"indicators,omitempty"`
	Risk           *RiskAssessment         `json:"risk,omitempty"`
	ProfitAnalysis *DividendProfitAnalysis `json:"profit_analysis,omitempty"`
}

// ScanFilters names the thresholds a scan actually applied
type ScanFilters struct {
	MinYieldPct     float64 `json:"min_yield_pct"`
	MinMarketCapUSD int64   `json:"min_market_cap_usd"`
	MaxStocks       int     `json:"max_stocks"`
}

// DividendScanResult is the sole artifact of one scan run.
// 생성 후 불변; 스캔마다 새 인스턴스를 만든다.
type DividendScanResult struct {
	Stocks           []DividendStock `json:"stocks"`
	ScannedAt        time.Time       `json:"scanned_at"`
	ScanRangeDays    int             `json:"scan_range_days"`
	ScanStartDate    time.Time       `json:"scan_start_date"`
	ScanEndDate      time.Time       `json:"scan_end_date"`
	FiltersApplied   ScanFilters     `json:"filters_applied"`
	HighRiskExcluded int             `json:"high_risk_excluded"`
}

// Count returns the number of surviving stocks
func (r *DividendScanResult) Count() int {
	return len(r.Stocks)
}
