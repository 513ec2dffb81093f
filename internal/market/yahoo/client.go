// Package yahoo implements the market data provider against the
// Yahoo Finance public JSON endpoints (quoteSummary v10, chart v8).
//
// 비즈니스 로직 없이 수집 + 지표 계산만 담당.
// 필터링/정렬/판단은 scan 패키지 몫이다.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/wonny/exdiv/internal/indicators"
	"github.com/wonny/exdiv/pkg/config"
	"github.com/wonny/exdiv/pkg/httputil"
	"github.com/wonny/exdiv/pkg/logger"
	"github.com/wonny/exdiv/pkg/redis"
)

// Yahoo가 브라우저 UA 없는 요청을 차단하는 경우가 있다
var requestHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	"Accept":     "application/json",
}

// Client fetches dividend and price data from Yahoo Finance
// ⭐ SSOT: Yahoo API 호출은 모두 이 클라이언트를 통해서만
type Client struct {
	cfg        config.YahooConfig
	httpClient *httputil.Client
	limiter    *rate.Limiter
	calculator *indicators.Calculator
	cache      *redis.Cache
	logger     *logger.Logger

	tickers []string
}

// NewClient creates a Yahoo Finance client.
// cache는 nil일 수 있다 (redis 비활성 시 지표 캐시 없이 동작).
func NewClient(
	cfg config.YahooConfig,
	httpClient *httputil.Client,
	calc *indicators.Calculator,
	cache *redis.Cache,
	log *logger.Logger,
) *Client {
	tickers := cfg.Tickers
	if len(tickers) == 0 {
		tickers = DefaultTickers()
	}

	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 2.0
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		calculator: calc,
		cache:      cache,
		logger:     log,
		tickers:    tickers,
	}
}

// getJSON performs a paced GET and decodes the JSON body into dest
func (c *Client) getJSON(ctx context.Context, rawURL string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, rawURL, requestHeaders)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("yahoo API returned %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

// quoteSummaryURL builds the v10 quoteSummary URL for a ticker
func (c *Client) quoteSummaryURL(ticker string) string {
	q := url.Values{}
	q.Set("modules", "summaryDetail,price,defaultKeyStatistics")
	return fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s",
		c.cfg.BaseURL, url.PathEscape(ticker), q.Encode())
}

// chartURL builds the v8 chart URL for a ticker
func (c *Client) chartURL(ticker string) string {
	q := url.Values{}
	q.Set("range", c.cfg.HistoryRange)
	q.Set("interval", "1d")
	return fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		c.cfg.BaseURL, url.PathEscape(ticker), q.Encode())
}
