package indicators

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/exdiv/internal/contracts"
	"github.com/wonny/exdiv/pkg/logger"
)

// 기술적 지표 계산에 사용하는 기간 파라미터
const (
	RSIPeriod        = 14 // Wilder's standard
	StochasticPeriod = 14 // %K look-back
	StochasticSmooth = 3  // Slow %K smoothing (SMA)
	StochasticD      = 3  // %D signal line (SMA)
	VolatilityPeriod = 20
	PriceChangeDays  = 5
	TradingDaysYear  = 252 // 연환산 기준 거래일 수
)

// PriceHistory is a chronologically ordered daily bar series (oldest first)
type PriceHistory struct {
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
}

// Len returns the number of bars
func (h PriceHistory) Len() int {
	return len(h.Close)
}

// Calculator computes technical indicators from a price history
// ⭐ SSOT: 기술적 지표 계산은 여기서만
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates a new indicator calculator
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{logger: log}
}

// Compute calculates the full indicator set for one ticker.
// 6개 지표는 서로 독립: 데이터가 부족한 지표만 nil이 된다.
// 전체 이력이 최소 요건(RSI 14 + smoothing 3)에 못 미치면 세트 전체가 nil.
func (c *Calculator) Compute(ticker string, hist PriceHistory) *contracts.TechnicalIndicators {
	if hist.Len() < RSIPeriod+StochasticSmooth {
		c.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"bars":   hist.Len(),
		}).Warn("Insufficient price history for indicators")
		return nil
	}

	stochK, stochD := c.Stochastic(hist)

	ind := &contracts.TechnicalIndicators{
		RSI14:         round2p(c.RSI(hist.Close)),
		StochasticK:   round2p(stochK),
		StochasticD:   round2p(stochD),
		Volatility20D: round2p(c.AnnualizedVolatility(hist.Close)),
		PriceChange5D: round2p(c.PriceChange(hist.Close)),
		AvgVolume20D:  round0p(c.AverageVolume(hist.Volume)),
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   hist.Len(),
	}).Debug("Calculated technical indicators")

	return ind
}

// RSI calculates the 14-period RSI with Wilder's smoothing.
// Wilder 방식: alpha = 1/N 지수이동평균을 gain/loss에 각각 적용
// (pandas ewm(alpha=1/14, adjust=False)와 동일한 점화식).
// Returns nil when fewer than 15 data points exist or the result is not finite.
func (c *Calculator) RSI(close []float64) *float64 {
	if len(close) < RSIPeriod+1 {
		return nil
	}

	alpha := 1.0 / float64(RSIPeriod)
	var avgGain, avgLoss float64

	for i := 1; i < len(close); i++ {
		delta := close[i] - close[i-1]
		gain := math.Max(delta, 0)
		loss := math.Max(-delta, 0)

		if i == 1 {
			// 첫 delta가 지수평활의 시드
			avgGain, avgLoss = gain, loss
			continue
		}

		avgGain = alpha*gain + (1-alpha)*avgGain
		avgLoss = alpha*loss + (1-alpha)*avgLoss
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			// 완전 횡보: RS = 0/0 → 정의 불가
			return nil
		}
		// 하락이 전혀 없으면 RS → ∞, RSI = 100
		v := 100.0
		return &v
	}

	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))
	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		return nil
	}
	return &rsi
}

// Stochastic calculates the stochastic oscillator %K(14,3) and %D(3).
// Raw %K = (Close − Low14) / (High14 − Low14) × 100
// Slow %K = SMA(Raw %K, 3), %D = SMA(Slow %K, 3)
// 14일간 가격 변동이 없는 구간(High14 == Low14)은 결측으로 전파한다.
// Returns (nil, nil) when fewer than 17 data points exist or the final
// values are not finite. 둘은 항상 함께 결정된다.
func (c *Calculator) Stochastic(hist PriceHistory) (*float64, *float64) {
	n := hist.Len()
	if n < StochasticPeriod+StochasticSmooth || len(hist.High) != n || len(hist.Low) != n {
		return nil, nil
	}

	// Raw %K for every index with a full 14-bar window
	rawK := make([]float64, n)
	for i := range rawK {
		rawK[i] = math.NaN()
	}
	for i := StochasticPeriod - 1; i < n; i++ {
		low14, high14 := hist.Low[i], hist.High[i]
		for j := i - StochasticPeriod + 1; j < i; j++ {
			low14 = math.Min(low14, hist.Low[j])
			high14 = math.Max(high14, hist.High[j])
		}

		r := high14 - low14
		if r == 0 {
			// 무변동 구간은 0도 50도 아닌 결측
			continue
		}
		rawK[i] = (hist.Close[i] - low14) / r * 100
	}

	slowK := rollingMean(rawK, StochasticSmooth)
	dLine := rollingMean(slowK, StochasticD)

	k, d := slowK[n-1], dLine[n-1]
	if math.IsNaN(k) || math.IsNaN(d) {
		return nil, nil
	}
	return &k, &d
}

// AnnualizedVolatility calculates 20-day annualized volatility.
// 일간 수익률 표준편차 × √252 × 100 (%).
// Returns nil when fewer than 21 data points exist.
func (c *Calculator) AnnualizedVolatility(close []float64) *float64 {
	if len(close) < VolatilityPeriod+1 {
		return nil
	}

	returns := make([]float64, 0, len(close)-1)
	for i := 1; i < len(close); i++ {
		if close[i-1] == 0 {
			return nil
		}
		returns = append(returns, close[i]/close[i-1]-1)
	}

	if len(returns) < VolatilityPeriod {
		return nil
	}

	recent := returns[len(returns)-VolatilityPeriod:]
	// 표본 표준편차 (n−1), pandas .std()와 동일
	sd := stat.StdDev(recent, nil)
	if math.IsNaN(sd) {
		return nil
	}

	annualized := sd * math.Sqrt(TradingDaysYear) * 100
	return &annualized
}

// PriceChange calculates the 5-trading-day percent return.
// Returns nil when fewer than 6 data points exist or the base price is zero.
func (c *Calculator) PriceChange(close []float64) *float64 {
	if len(close) < PriceChangeDays+1 {
		return nil
	}

	current := close[len(close)-1]
	past := close[len(close)-1-PriceChangeDays]
	if past == 0 {
		return nil
	}

	change := (current - past) / past * 100
	return &change
}

// AverageVolume calculates the 20-day simple average volume.
// Returns nil when fewer than 20 data points exist.
func (c *Calculator) AverageVolume(volume []float64) *float64 {
	if len(volume) < VolatilityPeriod {
		return nil
	}

	recent := volume[len(volume)-VolatilityPeriod:]
	avg := stat.Mean(recent, nil)
	if math.IsNaN(avg) {
		return nil
	}
	return &avg
}

// rollingMean computes a simple moving average; windows containing NaN
// produce NaN (결측 전파)
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(window)
	}
	return out
}

// round2p rounds an optional value to 2 decimal places
func round2p(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}

// round0p rounds an optional value to the nearest integer
func round0p(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v)
	return &r
}
