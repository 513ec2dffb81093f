package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/exdiv/internal/contracts"
)

func testResult(stocks ...contracts.DividendStock) contracts.DividendScanResult {
	return contracts.DividendScanResult{
		Stocks:        stocks,
		ScanStartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ScanEndDate:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestFormatForSlack_EmptyResult(t *testing.T) {
	blocks := FormatForSlack(testResult())

	require.Len(t, blocks, 1, "empty results still need one block")
	assert.Equal(t, "section", blocks[0].Type)
	assert.Contains(t, blocks[0].Text.Text, "미국 배당락일 임박")
	assert.Contains(t, blocks[0].Text.Text, "09/01 ~ 09/05")
}

func TestFormatForSlack_EmptyWithExclusions(t *testing.T) {
	result := testResult()
	result.HighRiskExcluded = 3

	blocks := FormatForSlack(result)

	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0].Text.Text, "HIGH 리스크 3종목 제외")
}

func TestFormatForSlack_StockLines(t *testing.T) {
	low := contracts.DividendStock{
		Ticker:         "KO",
		ExDividendDate: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		DividendYield:  3.5,
		Indicators: &contracts.TechnicalIndicators{
			RSI14:         fp(52),
			Volatility20D: fp(18),
		},
		Risk: &contracts.RiskAssessment{Level: contracts.RiskLow},
		ProfitAnalysis: &contracts.DividendProfitAnalysis{
			NetProfitYield: 1.23,
			IsProfitable:   true,
		},
	}

	medium := contracts.DividendStock{
		Ticker:         "MO",
		ExDividendDate: time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
		DividendYield:  8.1,
		Risk:           &contracts.RiskAssessment{Level: contracts.RiskMedium},
		ProfitAnalysis: &contracts.DividendProfitAnalysis{
			NetProfitYield: -0.4,
			IsProfitable:   false,
		},
	}

	result := testResult(low, medium)
	result.HighRiskExcluded = 1

	blocks := FormatForSlack(result)
	require.Len(t, blocks, 1)
	text := blocks[0].Text.Text

	assert.Contains(t, text, "미국 배당락일 임박 (2종목)")
	assert.Contains(t, text, "HIGH 리스크 1종목 제외")

	// 종목별 라인
	assert.Contains(t, text, ":large_green_circle:")
	assert.Contains(t, text, "<https://finance.yahoo.com/quote/KO|KO>")
	assert.Contains(t, text, "배당 3.5%")
	assert.Contains(t, text, "RSI 52")
	assert.Contains(t, text, "변동성 18%")
	assert.Contains(t, text, "순이익 +1.23%")

	assert.Contains(t, text, ":large_yellow_circle:")
	assert.Contains(t, text, ":warning: -0.40%")
	assert.NotContains(t, text, "MO> 09/04 | RSI", "지표 없는 종목은 지표 표기 생략")
}

func TestRiskEmoji(t *testing.T) {
	assert.Equal(t, ":white_circle:", riskEmoji(nil))
	assert.Equal(t, ":large_green_circle:", riskEmoji(&contracts.RiskAssessment{Level: contracts.RiskLow}))
	assert.Equal(t, ":large_yellow_circle:", riskEmoji(&contracts.RiskAssessment{Level: contracts.RiskMedium}))
	assert.Equal(t, ":red_circle:", riskEmoji(&contracts.RiskAssessment{Level: contracts.RiskHigh}))
}
