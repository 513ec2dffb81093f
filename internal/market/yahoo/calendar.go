package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const calendarURL = "https://finance.yahoo.com/calendar/dividends"

// expandWithCalendar scrapes the Yahoo dividend calendar page and
// merges discovered tickers into the universe.
// 스크랩 실패는 치명적이지 않다: 기본 유니버스로 계속 진행한다.
func (c *Client) expandWithCalendar(ctx context.Context, universe []string) []string {
	scraped, err := c.scrapeCalendarTickers(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Dividend calendar scrape failed, using base universe")
		return universe
	}

	seen := make(map[string]bool, len(universe))
	merged := make([]string, 0, len(universe)+len(scraped))
	for _, t := range universe {
		seen[t] = true
		merged = append(merged, t)
	}
	added := 0
	for _, t := range scraped {
		if !seen[t] {
			seen[t] = true
			merged = append(merged, t)
			added++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"scraped": len(scraped),
		"added":   added,
	}).Info("Universe expanded from dividend calendar")
	return merged
}

// scrapeCalendarTickers extracts ticker symbols from the calendar table
func (c *Client) scrapeCalendarTickers(ctx context.Context) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, calendarURL, requestHeaders)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar page returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var tickers []string
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		// 첫 번째 셀의 링크 텍스트가 심볼
		symbol := strings.TrimSpace(row.Find("td").First().Find("a").Text())
		if symbol == "" {
			symbol = strings.TrimSpace(row.Find("td").First().Text())
		}
		if symbol != "" && len(symbol) <= 6 && !strings.ContainsAny(symbol, " .") {
			tickers = append(tickers, strings.ToUpper(symbol))
		}
	})

	return tickers, nil
}
