package commands

import (
	"fmt"

	"github.com/wonny/exdiv/internal/indicators"
	"github.com/wonny/exdiv/internal/market/yahoo"
	"github.com/wonny/exdiv/internal/scan"
	"github.com/wonny/exdiv/internal/slack"
	"github.com/wonny/exdiv/pkg/config"
	"github.com/wonny/exdiv/pkg/httputil"
	"github.com/wonny/exdiv/pkg/logger"
	"github.com/wonny/exdiv/pkg/redis"
)

// services bundles the wired application components
type services struct {
	cfg     *config.Config
	logger  *logger.Logger
	redis   *redis.Client
	digest  *scan.DigestService
	lastRun *scan.LastRunStore
}

// buildServices wires the full scan stack from configuration
// ⭐ SSOT: 컴포넌트 조립은 이 함수에서만
func buildServices() (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	var cache *redis.Cache
	if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "exdiv")
		log.Info("Redis indicator cache enabled")
	}

	httpClient := httputil.New(cfg, log)
	calculator := indicators.NewCalculator(log)
	provider := yahoo.NewClient(cfg.Yahoo, httpClient, calculator, cache, log)

	assessor := scan.NewAssessor(cfg.Risk, log)
	analyzer := scan.NewAnalyzer(cfg.Profit, log)
	scanner := scan.NewScanner(provider, assessor, analyzer, cfg.Scan, log)

	webhook := slack.NewWebhook(cfg.Slack.WebhookURL, httpClient, log)
	lastRun := scan.NewLastRunStore()
	digest := scan.NewDigestService(scanner, webhook, lastRun, log)

	return &services{
		cfg:     cfg,
		logger:  log,
		redis:   redisClient,
		digest:  digest,
		lastRun: lastRun,
	}, nil
}

// close releases held connections
func (s *services) close() {
	if s.redis != nil {
		s.redis.Close()
	}
}
