package yahoo

import (
	"context"
	"time"

	"github.com/wonny/exdiv/internal/contracts"
)

// GetUpcomingDividends collects raw dividend records for universe tickers
// whose ex-dividend date falls inside [start, end] (inclusive).
// 개별 종목 실패는 경고 후 건너뛴다. 반환 에러는 없다시피 하지만
// 인터페이스 시그니처상 컨텍스트 취소는 전파한다.
func (c *Client) GetUpcomingDividends(ctx context.Context, start, end time.Time) ([]contracts.RawDividendRecord, error) {
	universe := c.tickers
	if c.cfg.UseCalendar {
		universe = c.expandWithCalendar(ctx, universe)
	}

	c.logger.WithFields(map[string]interface{}{
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.Format("2006-01-02"),
		"universe":   len(universe),
	}).Info("Collecting upcoming dividends")

	records := make([]contracts.RawDividendRecord, 0, len(universe))
	for _, ticker := range universe {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		rec, ok := c.fetchDividendInfo(ctx, ticker, start, end)
		if ok {
			records = append(records, rec)
		}
	}

	c.logger.WithField("collected", len(records)).Info("Dividend collection finished")
	return records, nil
}

// fetchDividendInfo queries quoteSummary for one ticker.
// 배당락일이 범위 밖이거나 데이터가 없으면 (record, false).
func (c *Client) fetchDividendInfo(ctx context.Context, ticker string, start, end time.Time) (contracts.RawDividendRecord, bool) {
	var resp quoteSummaryResponse
	if err := c.getJSON(ctx, c.quoteSummaryURL(ticker), &resp); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		}).Warn("quoteSummary fetch failed")
		return contracts.RawDividendRecord{}, false
	}

	if resp.QuoteSummary.Error != nil {
		c.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"code":   resp.QuoteSummary.Error.Code,
		}).Warn("quoteSummary API error")
		return contracts.RawDividendRecord{}, false
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return contracts.RawDividendRecord{}, false
	}

	result := resp.QuoteSummary.Result[0]
	detail := result.SummaryDetail

	if detail.ExDividendDate == nil || detail.ExDividendDate.Raw == 0 {
		return contracts.RawDividendRecord{}, false
	}

	// exDividendDate는 Unix timestamp(초, UTC)
	exDate := time.Unix(detail.ExDividendDate.Raw, 0).UTC()
	exDay := time.Date(exDate.Year(), exDate.Month(), exDate.Day(), 0, 0, 0, 0, time.UTC)

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	// 범위 밖이면 건너뛴다 (필터링이 아닌 수집 범위 설정)
	if exDay.Before(startDay) || exDay.After(endDay) {
		return contracts.RawDividendRecord{}, false
	}

	name := result.Price.ShortName
	if name == "" {
		name = ticker
	}

	rec := contracts.RawDividendRecord{
		Ticker:         ticker,
		CompanyName:    name,
		ExDividendDate: exDay.Format("2006-01-02"),
		URL:            quoteURL(ticker),
	}

	// dividendYield raw는 비율(0.035 = 3.5%)이므로 퍼센트로 변환
	if detail.DividendYield != nil {
		rec.DividendYield = detail.DividendYield.Raw * 100
	}
	// dividendRate는 연간 합계 금액
	if detail.DividendRate != nil {
		rec.DividendAmount = detail.DividendRate.Raw
	}
	if detail.MarketCap != nil {
		rec.MarketCap = int64(detail.MarketCap.Raw)
	}
	if result.Price.RegularMarketPrice != nil {
		rec.CurrentPrice = result.Price.RegularMarketPrice.Raw
	}
	// lastDividendValue: 마지막 실제 배당금(1회분). 낙폭 추정에 우선 사용.
	if result.DefaultKeyStatistics.LastDividendValue != nil {
		rec.LastDividendValue = result.DefaultKeyStatistics.LastDividendValue.Raw
	}

	return rec, true
}

func quoteURL(ticker string) string {
	return "https://finance.yahoo.com/quote/" + ticker
}
