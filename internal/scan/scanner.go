package scan

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/exdiv/internal/contracts"
	"github.com/wonny/exdiv/pkg/config"
	"github.com/wonny/exdiv/pkg/logger"
)

// Scanner coordinates the dividend scan pipeline
// ⭐ SSOT: 파이프라인 조율은 여기서만
//
// 단계: 범위 계산 → 원시 수집 → 파싱 → 기본 필터 → 지표/위험도 enrich
// → HIGH 제외 → 수익성 분석 → 정렬 → 상한 적용 → 결과 조립.
// 실패는 흡수된다: 전체 수집 실패는 빈 결과, per-ticker 실패는 해당
// 종목의 지표 결측으로만 남는다.
type Scanner struct {
	provider contracts.MarketDataProvider
	assessor *Assessor
	analyzer *Analyzer
	config   config.ScanConfig
	logger   *logger.Logger

	now func() time.Time // 테스트에서 고정
}

// NewScanner creates a new dividend scanner
func NewScanner(
	provider contracts.MarketDataProvider,
	assessor *Assessor,
	analyzer *Analyzer,
	cfg config.ScanConfig,
	log *logger.Logger,
) *Scanner {
	return &Scanner{
		provider: provider,
		assessor: assessor,
		analyzer: analyzer,
		config:   cfg,
		logger:   log,
		now:      time.Now,
	}
}

// Scan runs one full dividend scan.
// overrideDays > 0이면 요일 테이블 대신 [today, today+overrideDays]를 쓴다.
// 에러를 반환하지 않는다: 어떤 실패도 빈 stock 목록의 정상 결과로 변환된다.
func (s *Scanner) Scan(ctx context.Context, overrideDays int) contracts.DividendScanResult {
	today := dateOnly(s.now())
	startDate, endDate := CalculateScanRangeWithOverride(today, overrideDays)
	rangeDays := daysBetween(startDate, endDate)

	filters := contracts.ScanFilters{
		MinYieldPct:     s.config.MinDividendYieldPct,
		MinMarketCapUSD: s.config.MinMarketCapUSD,
		MaxStocks:       s.config.MaxStocks,
	}

	result := contracts.DividendScanResult{
		Stocks:         []contracts.DividendStock{},
		ScannedAt:      s.now(),
		ScanRangeDays:  rangeDays,
		ScanStartDate:  startDate,
		ScanEndDate:    endDate,
		FiltersApplied: filters,
	}

	s.logger.WithFields(map[string]interface{}{
		"today":      today.Format("2006-01-02"),
		"weekday":    today.Weekday().String(),
		"start_date": startDate.Format("2006-01-02"),
		"end_date":   endDate.Format("2006-01-02"),
		"range_days": rangeDays,
	}).Info("Starting dividend scan")

	raw, err := s.provider.GetUpcomingDividends(ctx, startDate, endDate)
	if err != nil {
		// 전체 수집 실패는 빈 결과로 흡수: 사용자에게는 "해당 없음"으로 보인다
		s.logger.WithError(err).Error("Dividend scan failed")
		return result
	}

	stocks := s.parseRawRecords(raw)

	s.logger.WithFields(map[string]interface{}{
		"parsed":         len(stocks),
		"min_yield_pct":  filters.MinYieldPct,
		"min_market_cap": filters.MinMarketCapUSD,
	}).Info("Applying base filters")

	filtered := s.applyFilters(stocks)

	enriched := s.enrichWithIndicators(ctx, filtered)

	kept, excluded := s.dropHighRisk(enriched)
	result.HighRiskExcluded = excluded

	kept = s.enrichWithProfitAnalysis(kept)

	s.sortByProfitability(kept)

	if len(kept) > s.config.MaxStocks {
		kept = kept[:s.config.MaxStocks]
	}
	result.Stocks = kept

	s.logger.WithFields(map[string]interface{}{
		"final_stocks":       len(kept),
		"high_risk_excluded": excluded,
	}).Info("Dividend scan completed")

	return result
}

// parseRawRecords converts provider records into stock values.
// 필수 필드 누락이나 날짜 파싱 실패 항목은 경고 로그 후 건너뛴다.
func (s *Scanner) parseRawRecords(raw []contracts.RawDividendRecord) []contracts.DividendStock {
	stocks := make([]contracts.DividendStock, 0, len(raw))
	for _, rec := range raw {
		if rec.Ticker == "" {
			s.logger.Warn("Dropping record without ticker")
			continue
		}

		exDate, err := time.Parse("2006-01-02", rec.ExDividendDate)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"ticker": rec.Ticker,
				"value":  rec.ExDividendDate,
			}).Warn("Dropping record with unparseable ex-dividend date")
			continue
		}

		stocks = append(stocks, contracts.DividendStock{
			Ticker:            rec.Ticker,
			CompanyName:       rec.CompanyName,
			ExDividendDate:    exDate,
			DividendYield:     rec.DividendYield,
			DividendAmount:    rec.DividendAmount,
			MarketCap:         rec.MarketCap,
			CurrentPrice:      rec.CurrentPrice,
			LastDividendValue: rec.LastDividendValue,
			URL:               rec.URL,
		})
	}
	return stocks
}

// applyFilters keeps stocks meeting the yield and market-cap thresholds.
// 두 임계값 모두 이상(inclusive) 조건.
func (s *Scanner) applyFilters(stocks []contracts.DividendStock) []contracts.DividendStock {
	filtered := make([]contracts.DividendStock, 0, len(stocks))
	for _, st := range stocks {
		if st.DividendYield >= s.config.MinDividendYieldPct &&
			st.MarketCap >= s.config.MinMarketCapUSD {
			filtered = append(filtered, st)
		}
	}
	return filtered
}

// enrichWithIndicators fetches indicators and assesses risk per stock.
// per-ticker 조회는 bounded fan-out으로 병렬 실행: 결과는 입력 인덱스
// 슬롯에 기록되므로 잠금이 필요 없고, 이후 정렬이 순서를 결정한다.
// 개별 조회 실패는 그 종목의 지표만 nil로 남긴다.
func (s *Scanner) enrichWithIndicators(ctx context.Context, stocks []contracts.DividendStock) []contracts.DividendStock {
	if len(stocks) == 0 {
		return stocks
	}

	s.logger.WithFields(map[string]interface{}{
		"stocks":      len(stocks),
		"concurrency": s.config.FetchConcurrency,
	}).Info("Fetching technical indicators")

	out := make([]contracts.DividendStock, len(stocks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.FetchConcurrency)

	for i, st := range stocks {
		i, st := i, st
		g.Go(func() error {
			ind, err := s.provider.GetTechnicalIndicators(ctx, st.Ticker)
			if err != nil {
				s.logger.WithFields(map[string]interface{}{
					"ticker": st.Ticker,
					"error":  err.Error(),
				}).Warn("Indicator fetch failed, continuing without")
			} else {
				st.Indicators = ind
			}

			// 지표 유무와 관계없이 위험도 평가 수행
			risk := s.assessor.Assess(st)
			st.Risk = &risk

			out[i] = st
			return nil
		})
	}

	// 워커는 에러를 반환하지 않는다 (실패는 per-ticker로 흡수)
	_ = g.Wait()

	return out
}

// dropHighRisk removes HIGH-risk stocks and counts them
func (s *Scanner) dropHighRisk(stocks []contracts.DividendStock) ([]contracts.DividendStock, int) {
	kept := make([]contracts.DividendStock, 0, len(stocks))
	for _, st := range stocks {
		if st.Risk != nil && st.Risk.Level == contracts.RiskHigh {
			continue
		}
		kept = append(kept, st)
	}

	excluded := len(stocks) - len(kept)
	if excluded > 0 {
		s.logger.WithField("count", excluded).Info("Excluded HIGH risk stocks")
	}
	return kept, excluded
}

// enrichWithProfitAnalysis attaches post-tax profitability to each stock
func (s *Scanner) enrichWithProfitAnalysis(stocks []contracts.DividendStock) []contracts.DividendStock {
	out := make([]contracts.DividendStock, len(stocks))
	for i, st := range stocks {
		pa := s.analyzer.Analyze(st)
		st.ProfitAnalysis = &pa
		out[i] = st
	}
	return out
}

// sortByProfitability orders stocks in place:
// is_profitable=true 먼저, 그 안에서 net_profit_yield 내림차순.
// 분석이 없는 종목은 비수익 그룹에서 세전 수익률 내림차순.
func (s *Scanner) sortByProfitability(stocks []contracts.DividendStock) {
	key := func(st contracts.DividendStock) (int, float64) {
		if st.ProfitAnalysis != nil {
			order := 1
			if st.ProfitAnalysis.IsProfitable {
				order = 0
			}
			return order, -st.ProfitAnalysis.NetProfitYield
		}
		return 1, -st.DividendYield
	}

	sort.SliceStable(stocks, func(i, j int) bool {
		oi, pi := key(stocks[i])
		oj, pj := key(stocks[j])
		if oi != oj {
			return oi < oj
		}
		return pi < pj
	})
}

// dateOnly truncates a time to its calendar date
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days between two dates.
// 경과 시간이 아닌 달력 일수: DST 전환으로 23시간짜리 하루가 끼어도
// 하루로 센다. 두 날짜를 UTC 자정으로 정규화한 뒤 뺀다.
func daysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}
