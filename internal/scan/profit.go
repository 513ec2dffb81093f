package scan

import (
	"fmt"
	"math"

	"github.com/wonny/exdiv/internal/contracts"
	"github.com/wonny/exdiv/pkg/config"
	"github.com/wonny/exdiv/pkg/logger"
)

// 분기배당 근사 제수: 미국 주식의 ~80%가 분기 배당이므로
// 1회분 배당금이 없으면 연간 배당금 / 4로 근사한다
const quarterlyPayments = 4

// Analyzer estimates post-tax profitability of capturing a dividend
// ⭐ SSOT: 세후 수익성 분석은 여기서만
type Analyzer struct {
	config config.ProfitConfig
	logger *logger.Logger
}

// NewAnalyzer creates a new profitability analyzer
func NewAnalyzer(cfg config.ProfitConfig, log *logger.Logger) *Analyzer {
	return &Analyzer{
		config: cfg,
		logger: log,
	}
}

// Analyze estimates the net result of holding through the ex-dividend date.
//
// 계산 로직:
//  1. 세후 배당수익률 = 세전 × (1 − 세율/100)
//  2. 예상 낙폭 = (1회 배당금 / 현재가 × 100) × (1 + vol_factor),
//     vol_factor = min(volatility_20d/100, cap)
//  3. 순수익률 = 세후 배당수익률 − 예상 낙폭
//  4. 판정: ±breakeven 이내면 손익분기, 양수면 수익, 음수면 손실
func (a *Analyzer) Analyze(stock contracts.DividendStock) contracts.DividendProfitAnalysis {
	grossYield := stock.DividendYield

	netYield := grossYield * (1 - a.config.TaxRatePct/100)
	estimatedDrop := a.estimateExDateDrop(stock)
	netProfit := netYield - estimatedDrop

	return contracts.DividendProfitAnalysis{
		GrossDividendYield:  round2(grossYield),
		TaxRate:             a.config.TaxRatePct,
		NetDividendYield:    round2(netYield),
		EstimatedExDateDrop: round2(estimatedDrop),
		NetProfitYield:      round2(netProfit),
		IsProfitable:        netProfit > 0,
		Verdict:             a.buildVerdict(netProfit, netYield, estimatedDrop),
	}
}

// estimateExDateDrop estimates the ex-date price drop in percent.
//
// 일반적으로 1회 배당금만큼 주가가 하락하되, 변동성이 높은 종목은
// 낙폭이 더 클 수 있으므로 보정한다. 연간 합계(DividendAmount)를 쓰면
// 분기배당 종목에서 낙폭이 ~4배 과대추정되므로 마지막 실제 1회분
// (LastDividendValue)을 우선한다.
func (a *Analyzer) estimateExDateDrop(stock contracts.DividendStock) float64 {
	perPayment := stock.LastDividendValue
	if perPayment <= 0 {
		perPayment = stock.DividendAmount / quarterlyPayments
	}

	if stock.CurrentPrice <= 0 || perPayment <= 0 {
		// 현재가 또는 배당금 정보가 없으면 세전 배당수익률/4로 낙폭 근사
		return stock.DividendYield / quarterlyPayments
	}

	baseDrop := perPayment / stock.CurrentPrice * 100

	// 변동성 보정: 변동성(%)을 0~cap 범위의 팩터로 변환
	volatilityFactor := 0.0
	if stock.Indicators != nil && stock.Indicators.Volatility20D != nil {
		volatilityFactor = math.Min(*stock.Indicators.Volatility20D/100, a.config.VolatilityFactorCap)
	}

	return baseDrop * (1 + volatilityFactor)
}

// buildVerdict renders the one-line profitability verdict
func (a *Analyzer) buildVerdict(netProfit, netYield, estimatedDrop float64) string {
	if math.Abs(netProfit) <= a.config.BreakevenThresholdPct {
		return fmt.Sprintf("손익분기 근처 (세후배당 %.2f%% ≈ 예상낙폭 %.2f%%)",
			netYield, estimatedDrop)
	}
	if netProfit > 0 {
		return fmt.Sprintf("세후에도 +%.2f%% 수익 예상 (배당 %.2f%% - 낙폭 %.2f%%)",
			netProfit, netYield, estimatedDrop)
	}
	return fmt.Sprintf("세후 %.2f%% 손실 예상 (낙폭 %.2f%%이 세후배당 %.2f%% 초과)",
		netProfit, estimatedDrop, netYield)
}

// round2 rounds to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
