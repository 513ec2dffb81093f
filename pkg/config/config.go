package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis (optional indicator cache)
	Redis RedisConfig

	// External services
	Yahoo YahooConfig
	Slack SlackConfig

	// Scan pipeline
	Scan   ScanConfig
	Risk   RiskConfig
	Profit ProfitConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// YahooConfig holds Yahoo Finance configuration
type YahooConfig struct {
	BaseURL        string
	HistoryRange   string   // chart API range (예: "3mo")
	RequestsPerSec float64  // 요청 페이싱 (Yahoo는 공식 rate limit이 없어 보수적으로)
	Tickers        []string // 비어 있으면 기본 배당주 유니버스 사용
	UseCalendar    bool     // 배당 캘린더 페이지 스크랩으로 유니버스 확장
}

// SlackConfig holds Slack integration configuration
type SlackConfig struct {
	WebhookURL string
	AppToken   string // App-Level Token (xapp-), Socket Mode용
	Channel    string
	DigestCron string // 다이제스트 발송 스케줄 (초 포함 cron)
}

// ScanConfig holds dividend scan filter configuration
type ScanConfig struct {
	// 왜 3%인가: 미국 S&P 500 평균 배당수익률(~1.5%)의 약 2배로,
	// 고배당주에 관심 있는 투자자에게 의미 있는 수준
	MinDividendYieldPct float64

	// 왜 $1B인가: 시가총액 $1B 이상은 미드캡 이상의 안정적인 기업
	MinMarketCapUSD int64

	// Slack 메시지 가독성을 위한 종목 수 상한
	MaxStocks int

	// per-ticker 지표 조회 동시 실행 수
	FetchConcurrency int
}

// RiskConfig holds risk-tier thresholds
// 비즈니스 튜닝 상수: 코드 수정 없이 환경변수로 조정 가능해야 한다
type RiskConfig struct {
	// RSI 75: 전통적 과매수 기준(70)보다 약간 높게.
	// 배당주는 배당락일 직전 매수세로 RSI가 다소 높을 수 있다.
	RSIHigh   float64
	RSIMedium float64

	// Stochastic: %K/%D 동시 조건으로 엄격하게 필터링하므로 85/80
	StochKHigh   float64
	StochDHigh   float64
	StochKMedium float64

	// 변동성 50%: S&P 500 평균 연환산 변동성(~15-20%)의 3배
	VolatilityHigh   float64
	VolatilityMedium float64

	// 5일 수익률 15%: 비정상적 급등, 되돌림 위험
	PriceChangeHigh   float64
	PriceChangeMedium float64
}

// ProfitConfig holds post-tax profitability constants
type ProfitConfig struct {
	// 한국 배당소득세 15.4% = 소득세 14% + 지방소득세 1.4%
	TaxRatePct float64

	// 변동성 보정 팩터 상한: 낙폭 보정은 최대 +50%
	VolatilityFactorCap float64

	// 거래 수수료, 슬리피지를 감안한 손익분기 판단 범위 (±%)
	BreakevenThresholdPct float64
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External services
		Yahoo: YahooConfig{
			BaseURL:        getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			HistoryRange:   getEnv("YAHOO_HISTORY_RANGE", "3mo"),
			RequestsPerSec: getEnvAsFloat("YAHOO_REQUESTS_PER_SEC", 2.0),
			Tickers:        getEnvAsList("YAHOO_TICKERS", nil),
			UseCalendar:    getEnvAsBool("YAHOO_USE_CALENDAR", false),
		},

		Slack: SlackConfig{
			WebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
			AppToken:   getEnv("SLACK_APP_TOKEN", ""),
			Channel:    getEnv("SLACK_CHANNEL", "#daily-digest"),
			DigestCron: getEnv("SLACK_DIGEST_CRON", "0 0 8 * * 1-5"),
		},

		// Scan pipeline
		Scan: ScanConfig{
			MinDividendYieldPct: getEnvAsFloat("SCAN_MIN_YIELD_PCT", 3.0),
			MinMarketCapUSD:     getEnvAsInt64("SCAN_MIN_MARKET_CAP_USD", 1_000_000_000),
			MaxStocks:           getEnvAsInt("SCAN_MAX_STOCKS", 10),
			FetchConcurrency:    getEnvAsInt("SCAN_FETCH_CONCURRENCY", 4),
		},

		Risk: RiskConfig{
			RSIHigh:           getEnvAsFloat("RISK_RSI_HIGH", 75),
			RSIMedium:         getEnvAsFloat("RISK_RSI_MEDIUM", 65),
			StochKHigh:        getEnvAsFloat("RISK_STOCH_K_HIGH", 85),
			StochDHigh:        getEnvAsFloat("RISK_STOCH_D_HIGH", 80),
			StochKMedium:      getEnvAsFloat("RISK_STOCH_K_MEDIUM", 75),
			VolatilityHigh:    getEnvAsFloat("RISK_VOLATILITY_HIGH", 50),
			VolatilityMedium:  getEnvAsFloat("RISK_VOLATILITY_MEDIUM", 35),
			PriceChangeHigh:   getEnvAsFloat("RISK_PRICE_CHANGE_HIGH", 15),
			PriceChangeMedium: getEnvAsFloat("RISK_PRICE_CHANGE_MEDIUM", 8),
		},

		Profit: ProfitConfig{
			TaxRatePct:            getEnvAsFloat("PROFIT_TAX_RATE_PCT", 15.4),
			VolatilityFactorCap:   getEnvAsFloat("PROFIT_VOLATILITY_FACTOR_CAP", 0.5),
			BreakevenThresholdPct: getEnvAsFloat("PROFIT_BREAKEVEN_PCT", 0.3),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Scan.MaxStocks <= 0 {
		return fmt.Errorf("SCAN_MAX_STOCKS must be positive")
	}

	if c.Scan.FetchConcurrency <= 0 {
		return fmt.Errorf("SCAN_FETCH_CONCURRENCY must be positive")
	}

	if c.Profit.TaxRatePct < 0 || c.Profit.TaxRatePct >= 100 {
		return fmt.Errorf("PROFIT_TAX_RATE_PCT must be in [0, 100)")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	if len(values) == 0 {
		return defaultValue
	}
	return values
}
