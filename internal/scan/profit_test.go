package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/exdiv/internal/contracts"
	"github.com/wonny/exdiv/pkg/config"
	"github.com/wonny/exdiv/pkg/logger"
)

func testProfitConfig() config.ProfitConfig {
	return config.ProfitConfig{
		TaxRatePct:            15.4,
		VolatilityFactorCap:   0.5,
		BreakevenThresholdPct: 0.3,
	}
}

func TestAnalyze_NetYieldIdentity(t *testing.T) {
	a := NewAnalyzer(testProfitConfig(), logger.NewNop())

	pa := a.Analyze(contracts.DividendStock{
		Ticker:            "T",
		DividendYield:     4.0,
		CurrentPrice:      100,
		LastDividendValue: 1.0,
	})

	// 4.0 × (1 − 0.154) = 3.384 → 3.38
	assert.InDelta(t, 3.38, pa.NetDividendYield, 0.001)
	assert.Equal(t, 15.4, pa.TaxRate)
	assert.Equal(t, 4.0, pa.GrossDividendYield)
	assert.InDelta(t, pa.NetDividendYield-pa.EstimatedExDateDrop, pa.NetProfitYield, 0.011)
}

// 마지막 실제 1회분이 있으면 연간 합계/4 대신 그 값을 쓴다
func TestAnalyze_PrefersLastDividendValue(t *testing.T) {
	a := NewAnalyzer(testProfitConfig(), logger.NewNop())

	pa := a.Analyze(contracts.DividendStock{
		Ticker:            "KO",
		DividendYield:     3.0,
		CurrentPrice:      100,
		DividendAmount:    8.0, // /4 = 2.0이 아니라
		LastDividendValue: 0.5, // 이 값이 우선
	})

	// drop = 0.5/100×100 = 0.5% (변동성 없음)
	assert.InDelta(t, 0.5, pa.EstimatedExDateDrop, 0.001)
}

func TestAnalyze_FallsBackToQuarterlyApproximation(t *testing.T) {
	a := NewAnalyzer(testProfitConfig(), logger.NewNop())

	pa := a.Analyze(contracts.DividendStock{
		Ticker:         "XOM",
		DividendYield:  3.0,
		CurrentPrice:   100,
		DividendAmount: 4.0,
		// LastDividendValue 없음
	})

	// drop = (4.0/4)/100×100 = 1.0%
	assert.InDelta(t, 1.0, pa.EstimatedExDateDrop, 0.001)
}

// 현재가/배당금 정보가 없으면 세전 수익률/4로 근사한 degraded 분석
func TestAnalyze_DegradedWithoutPrice(t *testing.T) {
	a := NewAnalyzer(testProfitConfig(), logger.NewNop())

	pa := a.Analyze(contracts.DividendStock{
		Ticker:        "VZ",
		DividendYield: 6.0,
	})

	assert.InDelta(t, 1.5, pa.EstimatedExDateDrop, 0.001)
	assert.InDelta(t, 6.0*(1-0.154)-1.5, pa.NetProfitYield, 0.011)
}

// 변동성 보정: 20% 변동성이면 낙폭 ×1.2, 60%는 cap에 걸려 ×1.5
func TestAnalyze_VolatilityAdjustment(t *testing.T) {
	a := NewAnalyzer(testProfitConfig(), logger.NewNop())

	base := contracts.DividendStock{
		Ticker:            "MO",
		DividendYield:     8.0,
		CurrentPrice:      50,
		LastDividendValue: 1.0,
	}

	noVol := a.Analyze(base)
	assert.InDelta(t, 2.0, noVol.EstimatedExDateDrop, 0.001)

	withVol := base
	withVol.Indicators = &contracts.TechnicalIndicators{Volatility20D: fp(20)}
	assert.InDelta(t, 2.4, a.Analyze(withVol).EstimatedExDateDrop, 0.001)

	extreme := base
	extreme.Indicators = &contracts.TechnicalIndicators{Volatility20D: fp(60)}
	assert.InDelta(t, 3.0, a.Analyze(extreme).EstimatedExDateDrop, 0.001)
}

func TestAnalyze_Verdicts(t *testing.T) {
	a := NewAnalyzer(testProfitConfig(), logger.NewNop())

	tests := []struct {
		name         string
		stock        contracts.DividendStock
		profitable   bool
		verdictMatch string
	}{
		{
			name: "clearly profitable",
			stock: contracts.DividendStock{
				DividendYield:     8.0,
				CurrentPrice:      100,
				LastDividendValue: 2.0,
			},
			// net 6.768 − drop 2.0 = +4.77
			profitable:   true,
			verdictMatch: "수익 예상",
		},
		{
			name: "clearly unprofitable",
			stock: contracts.DividendStock{
				DividendYield:     2.0,
				CurrentPrice:      100,
				LastDividendValue: 4.0,
			},
			// net 1.692 − drop 4.0 = −2.31
			profitable:   false,
			verdictMatch: "손실 예상",
		},
		{
			name: "near break-even",
			stock: contracts.DividendStock{
				DividendYield:     4.0,
				CurrentPrice:      100,
				LastDividendValue: 3.42,
			},
			// net 3.384 − drop 3.42 = −0.036 (±0.3 이내)
			profitable:   false,
			verdictMatch: "손익분기 근처",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pa := a.Analyze(tt.stock)

			assert.Equal(t, tt.profitable, pa.IsProfitable)
			assert.Contains(t, pa.Verdict, tt.verdictMatch)
		})
	}
}

func TestAnalyze_RoundsToTwoDecimals(t *testing.T) {
	a := NewAnalyzer(testProfitConfig(), logger.NewNop())

	pa := a.Analyze(contracts.DividendStock{
		DividendYield:     3.333,
		CurrentPrice:      97,
		LastDividendValue: 0.77,
	})

	for name, v := range map[string]float64{
		"net_dividend_yield":     pa.NetDividendYield,
		"estimated_ex_date_drop": pa.EstimatedExDateDrop,
		"net_profit_yield":       pa.NetProfitYield,
		"gross_dividend_yield":   pa.GrossDividendYield,
	} {
		assert.InDelta(t, v, round2(v), 1e-9, "%s should be rounded to 2dp", name)
	}
}
