package contracts

import (
	"context"
	"time"
)

// RawDividendRecord is one provider record before parsing.
// ExDividendDate는 ISO 날짜 문자열 그대로 전달되고 파싱 단계에서 검증된다.
type RawDividendRecord struct {
	Ticker            string  `json:"ticker"`
	CompanyName       string  `json:"company_name"`
	ExDividendDate    string  `json:"ex_dividend_date"`
	DividendYield     float64 `json:"dividend_yield"` // 퍼센트 변환 완료
	DividendAmount    float64 `json:"dividend_amount"`
	MarketCap         int64   `json:"market_cap"`
	CurrentPrice      float64 `json:"current_price"`
	LastDividendValue float64 `json:"last_dividend_value"`
	URL               string  `json:"reference_url"`
}

// MarketDataProvider supplies raw dividend facts and technical indicators.
// ⭐ 스캔 엔진이 소비하는 유일한 외부 데이터 경계
type MarketDataProvider interface {
	// GetUpcomingDividends returns raw records whose ex-dividend date falls
	// inside [start, end]. Failed tickers are simply omitted.
	GetUpcomingDividends(ctx context.Context, start, end time.Time) ([]RawDividendRecord, error)

	// GetTechnicalIndicators returns indicators for one ticker.
	// (nil, nil) means the price history was unavailable or too short.
	GetTechnicalIndicators(ctx context.Context, ticker string) (*TechnicalIndicators, error)
}
