package yahoo

import (
	"context"
	"fmt"
	"math"

	"github.com/wonny/exdiv/internal/contracts"
	"github.com/wonny/exdiv/internal/indicators"
	"github.com/wonny/exdiv/pkg/redis"
)

// GetTechnicalIndicators fetches daily OHLCV history and computes
// technical indicators for one ticker.
// (nil, nil)은 이력 부족을 의미한다. redis가 켜져 있으면 결과를
// 1시간 캐시한다 (일봉 데이터라 장중 반복 스캔에 충분).
func (c *Client) GetTechnicalIndicators(ctx context.Context, ticker string) (*contracts.TechnicalIndicators, error) {
	cacheKey := redis.IndicatorKey(ticker)

	if c.cache != nil {
		var cached contracts.TechnicalIndicators
		hit, err := c.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			c.logger.WithError(err).Debug("Indicator cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	hist, err := c.fetchPriceHistory(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch price history %s: %w", ticker, err)
	}

	ind := c.calculator.Compute(ticker, hist)
	if ind == nil {
		return nil, nil
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, ind, redis.TTLLong); err != nil {
			c.logger.WithError(err).Debug("Indicator cache write failed")
		}
	}

	return ind, nil
}

// fetchPriceHistory loads daily bars from the chart endpoint.
// null 바(휴장일 등)는 모든 시리즈에서 함께 제거해 길이를 맞춘다.
func (c *Client) fetchPriceHistory(ctx context.Context, ticker string) (indicators.PriceHistory, error) {
	var resp chartResponse
	if err := c.getJSON(ctx, c.chartURL(ticker), &resp); err != nil {
		return indicators.PriceHistory{}, err
	}

	if resp.Chart.Error != nil {
		return indicators.PriceHistory{}, fmt.Errorf("chart API error: %s", resp.Chart.Error.Code)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return indicators.PriceHistory{}, fmt.Errorf("chart response missing quote data")
	}

	quote := resp.Chart.Result[0].Indicators.Quote[0]

	n := len(quote.Close)
	hist := indicators.PriceHistory{
		High:   make([]float64, 0, n),
		Low:    make([]float64, 0, n),
		Close:  make([]float64, 0, n),
		Volume: make([]float64, 0, n),
	}

	for i := 0; i < n; i++ {
		if i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Volume) {
			break
		}
		if math.IsNaN(quote.Close[i]) || quote.Close[i] == 0 {
			continue
		}
		hist.High = append(hist.High, quote.High[i])
		hist.Low = append(hist.Low, quote.Low[i])
		hist.Close = append(hist.Close, quote.Close[i])
		hist.Volume = append(hist.Volume, quote.Volume[i])
	}

	return hist, nil
}
