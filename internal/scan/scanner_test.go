package scan

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/exdiv/internal/contracts"
	"github.com/wonny/exdiv/pkg/config"
	"github.com/wonny/exdiv/pkg/logger"
)

// fakeProvider is an in-memory MarketDataProvider for scanner tests
type fakeProvider struct {
	records    []contracts.RawDividendRecord
	indicators map[string]*contracts.TechnicalIndicators
	failAll    bool
	failTicker string
}

func (p *fakeProvider) GetUpcomingDividends(ctx context.Context, start, end time.Time) ([]contracts.RawDividendRecord, error) {
	if p.failAll {
		return nil, errors.New("provider unavailable")
	}
	return p.records, nil
}

func (p *fakeProvider) GetTechnicalIndicators(ctx context.Context, ticker string) (*contracts.TechnicalIndicators, error) {
	if ticker == p.failTicker {
		return nil, errors.New("indicator fetch failed")
	}
	return p.indicators[ticker], nil
}

func testScanConfig() config.ScanConfig {
	return config.ScanConfig{
		MinDividendYieldPct: 3.0,
		MinMarketCapUSD:     1_000_000_000,
		MaxStocks:           10,
		FetchConcurrency:    4,
	}
}

func newTestScanner(p contracts.MarketDataProvider) *Scanner {
	log := logger.NewNop()
	s := NewScanner(p,
		NewAssessor(testRiskConfig(), log),
		NewAnalyzer(testProfitConfig(), log),
		testScanConfig(), log)
	// 2026-09-01 is a Tuesday: scan window +4 days
	s.now = func() time.Time {
		return time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	}
	return s
}

func record(ticker string, yieldPct float64, capUSD int64) contracts.RawDividendRecord {
	return contracts.RawDividendRecord{
		Ticker:            ticker,
		CompanyName:       ticker + " Inc.",
		ExDividendDate:    "2026-09-03",
		DividendYield:     yieldPct,
		DividendAmount:    4.0,
		MarketCap:         capUSD,
		CurrentPrice:      100,
		LastDividendValue: 1.0,
		URL:               "https://finance.yahoo.com/quote/" + ticker,
	}
}

func TestScan_HappyPath(t *testing.T) {
	p := &fakeProvider{
		records: []contracts.RawDividendRecord{
			record("AAA", 5.0, 2_000_000_000),
			record("BBB", 4.0, 5_000_000_000),
		},
		indicators: map[string]*contracts.TechnicalIndicators{
			"AAA": {RSI14: fp(50), Volatility20D: fp(20)},
			"BBB": {RSI14: fp(55), Volatility20D: fp(25)},
		},
	}

	result := newTestScanner(p).Scan(context.Background(), 0)

	require.Equal(t, 2, result.Count())
	assert.Equal(t, 0, result.HighRiskExcluded)
	assert.Equal(t, 4, result.ScanRangeDays)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), result.ScanStartDate)
	assert.Equal(t, time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), result.ScanEndDate)

	for _, st := range result.Stocks {
		assert.NotNil(t, st.Indicators, "%s should carry indicators", st.Ticker)
		assert.NotNil(t, st.Risk, "%s should carry risk", st.Ticker)
		assert.NotNil(t, st.ProfitAnalysis, "%s should carry profit analysis", st.Ticker)
	}
}

func TestScan_ProviderFailureYieldsEmptyResult(t *testing.T) {
	result := newTestScanner(&fakeProvider{failAll: true}).Scan(context.Background(), 0)

	assert.Equal(t, 0, result.Count())
	assert.NotNil(t, result.Stocks, "stocks must be an empty slice, not nil")
	assert.Equal(t, 4, result.ScanRangeDays)
	assert.Equal(t, 3.0, result.FiltersApplied.MinYieldPct)
}

func TestScan_BaseFilters(t *testing.T) {
	p := &fakeProvider{
		records: []contracts.RawDividendRecord{
			record("KEEP", 3.0, 1_000_000_000),   // 경계값 포함
			record("LOWYIELD", 2.9, 5_000_000_000),
			record("SMALLCAP", 6.0, 900_000_000),
		},
		indicators: map[string]*contracts.TechnicalIndicators{},
	}

	result := newTestScanner(p).Scan(context.Background(), 0)

	require.Equal(t, 1, result.Count())
	assert.Equal(t, "KEEP", result.Stocks[0].Ticker)
}

func TestScan_DropsUnparseableRecords(t *testing.T) {
	bad := record("BAD", 5.0, 2_000_000_000)
	bad.ExDividendDate = "not-a-date"

	noTicker := record("", 5.0, 2_000_000_000)

	p := &fakeProvider{
		records:    []contracts.RawDividendRecord{bad, noTicker, record("OK", 5.0, 2_000_000_000)},
		indicators: map[string]*contracts.TechnicalIndicators{},
	}

	result := newTestScanner(p).Scan(context.Background(), 0)

	require.Equal(t, 1, result.Count())
	assert.Equal(t, "OK", result.Stocks[0].Ticker)
}

func TestScan_ExcludesHighRisk(t *testing.T) {
	p := &fakeProvider{
		records: []contracts.RawDividendRecord{
			record("CALM", 5.0, 2_000_000_000),
			record("HOT", 5.0, 2_000_000_000),
		},
		indicators: map[string]*contracts.TechnicalIndicators{
			"CALM": {RSI14: fp(50)},
			"HOT":  {RSI14: fp(85)},
		},
	}

	result := newTestScanner(p).Scan(context.Background(), 0)

	require.Equal(t, 1, result.Count())
	assert.Equal(t, "CALM", result.Stocks[0].Ticker)
	assert.Equal(t, 1, result.HighRiskExcluded)
}

// 지표 조회 실패는 해당 종목을 탈락시키지 않고 LOW/BUY로 남긴다
func TestScan_IndicatorFailureIsIsolated(t *testing.T) {
	p := &fakeProvider{
		records: []contracts.RawDividendRecord{
			record("FINE", 5.0, 2_000_000_000),
			record("FLAKY", 4.0, 2_000_000_000),
		},
		indicators: map[string]*contracts.TechnicalIndicators{
			"FINE": {RSI14: fp(50)},
		},
		failTicker: "FLAKY",
	}

	result := newTestScanner(p).Scan(context.Background(), 0)

	require.Equal(t, 2, result.Count())
	for _, st := range result.Stocks {
		if st.Ticker == "FLAKY" {
			assert.Nil(t, st.Indicators)
			require.NotNil(t, st.Risk)
			assert.Equal(t, contracts.RiskLow, st.Risk.Level)
		}
	}
}

func TestScan_SortsByProfitability(t *testing.T) {
	// 1회분 배당금으로 순수익률 차등: 낮은 낙폭일수록 수익성 높음
	mk := func(ticker string, lastDiv float64) contracts.RawDividendRecord {
		r := record(ticker, 5.0, 2_000_000_000)
		r.LastDividendValue = lastDiv
		return r
	}

	p := &fakeProvider{
		records: []contracts.RawDividendRecord{
			mk("LOSS", 9.0),  // net 4.23 − 9.0 = 비수익
			mk("BEST", 0.5),  // net 4.23 − 0.5 = +3.73
			mk("GOOD", 2.0),  // net 4.23 − 2.0 = +2.23
		},
		indicators: map[string]*contracts.TechnicalIndicators{},
	}

	result := newTestScanner(p).Scan(context.Background(), 0)

	require.Equal(t, 3, result.Count())
	assert.Equal(t, "BEST", result.Stocks[0].Ticker)
	assert.Equal(t, "GOOD", result.Stocks[1].Ticker)
	assert.Equal(t, "LOSS", result.Stocks[2].Ticker)

	assert.True(t, result.Stocks[0].ProfitAnalysis.IsProfitable)
	assert.False(t, result.Stocks[2].ProfitAnalysis.IsProfitable)
}

func TestScan_TruncatesToMaxStocks(t *testing.T) {
	var records []contracts.RawDividendRecord
	for i := 0; i < 15; i++ {
		records = append(records, record(fmt.Sprintf("T%02d", i), 5.0, 2_000_000_000))
	}

	p := &fakeProvider{records: records, indicators: map[string]*contracts.TechnicalIndicators{}}

	result := newTestScanner(p).Scan(context.Background(), 0)

	assert.Equal(t, 10, result.Count())
}

// 썸머타임 시작으로 창 안의 하루가 23시간이어도 달력 일수로 센다
func TestScan_RangeDaysAcrossDSTStart(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	s := newTestScanner(&fakeProvider{indicators: map[string]*contracts.TechnicalIndicators{}})
	// 2026-03-06 is a Friday (+5 days); the window crosses the
	// 2026-03-08 spring-forward transition
	s.now = func() time.Time {
		return time.Date(2026, 3, 6, 9, 0, 0, 0, loc)
	}

	result := s.Scan(context.Background(), 0)

	assert.Equal(t, 5, result.ScanRangeDays)
	assert.Equal(t, "2026-03-11", result.ScanEndDate.Format("2006-01-02"))
}

func TestDaysBetween_OffsetChange(t *testing.T) {
	// 같은 달력 구간이라도 시작은 UTC-5, 끝은 UTC-4 (DST 이후)
	start := time.Date(2026, 3, 6, 0, 0, 0, 0, time.FixedZone("EST", -5*3600))
	end := time.Date(2026, 3, 11, 0, 0, 0, 0, time.FixedZone("EDT", -4*3600))

	assert.Equal(t, 5, daysBetween(start, end))
}

func TestScan_OverrideDays(t *testing.T) {
	p := &fakeProvider{indicators: map[string]*contracts.TechnicalIndicators{}}

	result := newTestScanner(p).Scan(context.Background(), 14)

	assert.Equal(t, 14, result.ScanRangeDays)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), result.ScanEndDate)
}
