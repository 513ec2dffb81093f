package scan

import (
	"fmt"
	"strings"

	"github.com/wonny/exdiv/internal/contracts"
	"github.com/wonny/exdiv/internal/slack"
)

// riskEmoji maps a risk level to its Slack indicator
func riskEmoji(risk *contracts.RiskAssessment) string {
	if risk == nil {
		return ":white_circle:"
	}
	switch risk.Level {
	case contracts.RiskLow:
		return ":large_green_circle:"
	case contracts.RiskMedium:
		return ":large_yellow_circle:"
	case contracts.RiskHigh:
		return ":red_circle:"
	default:
		return ":white_circle:"
	}
}

// FormatForSlack renders a scan result as Slack blocks.
// 종목이 없어도 빈 배열이 아닌 안내 블록 하나를 반환한다
// (webhook은 빈 blocks를 거절하므로).
func FormatForSlack(result contracts.DividendScanResult) []slack.Block {
	window := fmt.Sprintf("%s ~ %s",
		result.ScanStartDate.Format("01/02"),
		result.ScanEndDate.Format("01/02"))

	if len(result.Stocks) == 0 {
		text := fmt.Sprintf("*미국 배당락일 임박*\n%s 범위에 조건을 만족하는 종목이 없습니다.", window)
		if result.HighRiskExcluded > 0 {
			text += fmt.Sprintf("\n(HIGH 리스크 %d종목 제외됨)", result.HighRiskExcluded)
		}
		return []slack.Block{slack.SectionBlock(text)}
	}

	title := fmt.Sprintf("미국 배당락일 임박 (%d종목)", len(result.Stocks))
	if result.HighRiskExcluded > 0 {
		title += fmt.Sprintf(" | HIGH 리스크 %d종목 제외", result.HighRiskExcluded)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(":moneybag: *%s*\n", title))

	for _, st := range result.Stocks {
		sb.WriteString(fmt.Sprintf("%s <https://finance.yahoo.com/quote/%s|%s> %s 배당 %.1f%%",
			riskEmoji(st.Risk),
			st.Ticker, st.Ticker,
			st.ExDividendDate.Format("01/02"),
			st.DividendYield))

		if st.Indicators != nil {
			if st.Indicators.RSI14 != nil {
				sb.WriteString(fmt.Sprintf(" | RSI %.0f", *st.Indicators.RSI14))
			}
			if st.Indicators.Volatility20D != nil {
				sb.WriteString(fmt.Sprintf(" | 변동성 %.0f%%", *st.Indicators.Volatility20D))
			}
		}

		if st.ProfitAnalysis != nil {
			if st.ProfitAnalysis.IsProfitable {
				sb.WriteString(fmt.Sprintf(" | 순이익 +%.2f%%", st.ProfitAnalysis.NetProfitYield))
			} else {
				sb.WriteString(fmt.Sprintf(" | :warning: %+.2f%%", st.ProfitAnalysis.NetProfitYield))
			}
		}

		sb.WriteString("\n")
	}

	return []slack.Block{slack.SectionBlock(strings.TrimRight(sb.String(), "\n"))}
}
