// Package jobs contains the scheduled job implementations.
package jobs

import (
	"context"

	"github.com/wonny/exdiv/internal/scan"
	"github.com/wonny/exdiv/pkg/logger"
)

// DigestJob runs a dividend scan and posts the digest to Slack
type DigestJob struct {
	digest   *scan.DigestService
	schedule string
	logger   *logger.Logger
}

// NewDigestJob creates the daily digest job.
// schedule은 초를 포함한 cron 표현식 (기본: 평일 08:00).
func NewDigestJob(digest *scan.DigestService, schedule string, log *logger.Logger) *DigestJob {
	return &DigestJob{
		digest:   digest,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *DigestJob) Name() string { return "dividend_digest" }

// Schedule returns the cron expression
func (j *DigestJob) Schedule() string { return j.schedule }

// Run executes one scan-and-send cycle
func (j *DigestJob) Run(ctx context.Context) error {
	j.logger.Info("Scheduled dividend digest starting")
	return j.digest.RunAndSend(ctx, 0, "schedule")
}
