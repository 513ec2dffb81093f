package scan

import (
	"fmt"

	"github.com/wonny/exdiv/internal/contracts"
	"github.com/wonny/exdiv/pkg/config"
	"github.com/wonny/exdiv/pkg/logger"
)

// Assessor maps technical indicators to a three-tier risk classification
// ⭐ SSOT: 배당락 전후 위험도 판단은 여기서만
type Assessor struct {
	config config.RiskConfig
	logger *logger.Logger
}

// NewAssessor creates a new risk assessor
func NewAssessor(cfg config.RiskConfig, log *logger.Logger) *Assessor {
	return &Assessor{
		config: cfg,
		logger: log,
	}
}

// Assess evaluates ex-dividend entry risk from a stock's technical indicators.
//
// 판단 기준 (HIGH를 먼저 확인, 지표별로 독립 평가):
//   - HIGH (SKIP): RSI, Stochastic %K+%D 동시, 변동성, 5일 수익률 중
//     하나라도 HIGH 임계값 초과
//   - MEDIUM (HOLD): HIGH 해당 없음 + 하나라도 MEDIUM 구간
//   - LOW (BUY): 모두 정상 범위
//
// 지표가 아예 없으면 기본 LOW/BUY. 개별 지표 결측은 그 검사만 건너뛴다.
func (a *Assessor) Assess(stock contracts.DividendStock) contracts.RiskAssessment {
	ind := stock.Indicators
	if ind == nil {
		return contracts.RiskAssessment{
			Level:          contracts.RiskLow,
			Reasons:        []string{"기술적 지표 데이터 없음 — 기본 LOW 처리"},
			Recommendation: contracts.RiskLow.Recommendation(),
		}
	}

	var highReasons, mediumReasons []string

	// RSI 판단
	if ind.RSI14 != nil {
		switch {
		case *ind.RSI14 > a.config.RSIHigh:
			highReasons = append(highReasons,
				fmt.Sprintf("RSI %.0f > %.0f — 심한 과매수", *ind.RSI14, a.config.RSIHigh))
		case *ind.RSI14 > a.config.RSIMedium:
			mediumReasons = append(mediumReasons,
				fmt.Sprintf("RSI %.0f — 과매수 접근 (%.0f~%.0f)",
					*ind.RSI14, a.config.RSIMedium, a.config.RSIHigh))
		}
	}

	// Stochastic 판단: HIGH는 %K/%D 동시 조건, MEDIUM은 %K 단독
	if ind.StochasticK != nil && ind.StochasticD != nil {
		switch {
		case *ind.StochasticK > a.config.StochKHigh && *ind.StochasticD > a.config.StochDHigh:
			highReasons = append(highReasons,
				fmt.Sprintf("Stochastic %%K=%.0f, %%D=%.0f — 과매수 구간",
					*ind.StochasticK, *ind.StochasticD))
		case *ind.StochasticK > a.config.StochKMedium:
			mediumReasons = append(mediumReasons,
				fmt.Sprintf("Stochastic %%K=%.0f > %.0f — 주의",
					*ind.StochasticK, a.config.StochKMedium))
		}
	}

	// 변동성 판단
	if ind.Volatility20D != nil {
		switch {
		case *ind.Volatility20D > a.config.VolatilityHigh:
			highReasons = append(highReasons,
				fmt.Sprintf("변동성 %.1f%% > %.0f%% — 극단적 변동",
					*ind.Volatility20D, a.config.VolatilityHigh))
		case *ind.Volatility20D > a.config.VolatilityMedium:
			mediumReasons = append(mediumReasons,
				fmt.Sprintf("변동성 %.1f%% — 높은 편 (%.0f~%.0f%%)",
					*ind.Volatility20D, a.config.VolatilityMedium, a.config.VolatilityHigh))
		}
	}

	// 5일 수익률 판단
	if ind.PriceChange5D != nil {
		switch {
		case *ind.PriceChange5D > a.config.PriceChangeHigh:
			highReasons = append(highReasons,
				fmt.Sprintf("5일 +%.1f%% — 급등 후 되돌림 위험", *ind.PriceChange5D))
		case *ind.PriceChange5D > a.config.PriceChangeMedium:
			mediumReasons = append(mediumReasons,
				fmt.Sprintf("5일 +%.1f%% — 상승 과열 주의", *ind.PriceChange5D))
		}
	}

	// HIGH 리스크: 하나라도 해당 시 (MEDIUM 사유는 버린다)
	if len(highReasons) > 0 {
		return contracts.RiskAssessment{
			Level:          contracts.RiskHigh,
			Reasons:        highReasons,
			Recommendation: contracts.RiskHigh.Recommendation(),
		}
	}

	if len(mediumReasons) > 0 {
		return contracts.RiskAssessment{
			Level:          contracts.RiskMedium,
			Reasons:        mediumReasons,
			Recommendation: contracts.RiskMedium.Recommendation(),
		}
	}

	return contracts.RiskAssessment{
		Level:          contracts.RiskLow,
		Reasons:        []string{"모든 지표 정상 범위"},
		Recommendation: contracts.RiskLow.Recommendation(),
	}
}
