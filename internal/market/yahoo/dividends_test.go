package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/exdiv/internal/indicators"
	"github.com/wonny/exdiv/pkg/config"
	"github.com/wonny/exdiv/pkg/httputil"
	"github.com/wonny/exdiv/pkg/logger"
)

// quoteSummaryFixture renders a minimal v10 response
func quoteSummaryFixture(name string, yieldFrac, rate float64, exDate int64, capUSD int64, price, lastDiv float64) string {
	return fmt.Sprintf(`{
		"quoteSummary": {
			"result": [{
				"summaryDetail": {
					"dividendYield": {"raw": %f, "fmt": ""},
					"dividendRate": {"raw": %f, "fmt": ""},
					"exDividendDate": {"raw": %d, "fmt": ""},
					"marketCap": {"raw": %d, "fmt": ""}
				},
				"price": {
					"shortName": "%s",
					"regularMarketPrice": {"raw": %f, "fmt": ""}
				},
				"defaultKeyStatistics": {
					"lastDividendValue": {"raw": %f, "fmt": ""}
				}
			}],
			"error": null
		}
	}`, yieldFrac, rate, exDate, capUSD, name, price, lastDiv)
}

func newTestClient(t *testing.T, serverURL string, tickers []string) *Client {
	t.Helper()

	log := logger.NewNop()
	httpClient := httputil.New(&config.Config{}, log).DisableRetry()

	return NewClient(config.YahooConfig{
		BaseURL:        serverURL,
		HistoryRange:   "3mo",
		RequestsPerSec: 1000, // 테스트에서는 페이싱 대기 없음
		Tickers:        tickers,
	}, httpClient, indicators.NewCalculator(log), nil, log)
}

func TestGetUpcomingDividends(t *testing.T) {
	inWindow := time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC).Unix()
	outOfWindow := time.Date(2026, 9, 20, 14, 0, 0, 0, time.UTC).Unix()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v10/finance/quoteSummary/KO":
			fmt.Fprint(w, quoteSummaryFixture("Coca-Cola", 0.031, 1.94, inWindow, 260_000_000_000, 62.5, 0.485))
		case "/v10/finance/quoteSummary/LATER":
			fmt.Fprint(w, quoteSummaryFixture("Later Corp", 0.045, 2.0, outOfWindow, 5_000_000_000, 40, 0.5))
		case "/v10/finance/quoteSummary/NODIV":
			fmt.Fprint(w, `{"quoteSummary":{"result":[{"summaryDetail":{},"price":{"shortName":"No Dividend"},"defaultKeyStatistics":{}}],"error":null}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, []string{"KO", "LATER", "NODIV", "MISSING"})

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	records, err := c.GetUpcomingDividends(context.Background(), start, end)
	require.NoError(t, err)

	// 범위 밖(LATER), 배당락일 없음(NODIV), 404(MISSING)는 모두 제외
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "KO", rec.Ticker)
	assert.Equal(t, "Coca-Cola", rec.CompanyName)
	assert.Equal(t, "2026-09-03", rec.ExDividendDate)
	assert.InDelta(t, 3.1, rec.DividendYield, 0.0001, "yield fraction should become percent")
	assert.InDelta(t, 1.94, rec.DividendAmount, 0.0001)
	assert.Equal(t, int64(260_000_000_000), rec.MarketCap)
	assert.InDelta(t, 62.5, rec.CurrentPrice, 0.0001)
	assert.InDelta(t, 0.485, rec.LastDividendValue, 0.0001)
	assert.Equal(t, "https://finance.yahoo.com/quote/KO", rec.URL)
}

func TestGetUpcomingDividends_WindowBoundariesInclusive(t *testing.T) {
	onStart := time.Date(2026, 9, 1, 5, 0, 0, 0, time.UTC).Unix()
	onEnd := time.Date(2026, 9, 5, 23, 0, 0, 0, time.UTC).Unix()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v10/finance/quoteSummary/FIRST":
			fmt.Fprint(w, quoteSummaryFixture("First", 0.04, 2.0, onStart, 2_000_000_000, 50, 0.5))
		case "/v10/finance/quoteSummary/LAST":
			fmt.Fprint(w, quoteSummaryFixture("Last", 0.04, 2.0, onEnd, 2_000_000_000, 50, 0.5))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, []string{"FIRST", "LAST"})

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	records, err := c.GetUpcomingDividends(context.Background(), start, end)
	require.NoError(t, err)
	assert.Len(t, records, 2, "both boundary dates are inclusive")
}

func TestGetUpcomingDividends_AllFailuresYieldEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, []string{"A", "B"})

	records, err := c.GetUpcomingDividends(context.Background(),
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDefaultTickersIsCopied(t *testing.T) {
	a := DefaultTickers()
	a[0] = "MUTATED"
	assert.NotEqual(t, "MUTATED", DefaultTickers()[0])
}
