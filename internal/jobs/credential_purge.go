// File: internal/jobs/credential_purge.go
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"startupteam_backend/internal/config"
)

const purgeTimeout = 5 * time.Minute

// CredentialPurger clears credentials that expired before now.
type CredentialPurger interface {
	PurgeExpiredCredentials(ctx context.Context, now time.Time) (int64, error)
}

// TokenPurger drops revoked-token entries whose tokens have expired anyway.
type TokenPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// CredentialPurgeJob periodically clears expired verification codes, reset
// tokens and revoked-token entries.
type CredentialPurgeJob struct {
	users     CredentialPurger
	blocklist TokenPurger
	schedule  string
	logger    *zap.Logger
	scheduler *cron.Cron
	now       func() time.Time
}

func NewCredentialPurgeJob(users CredentialPurger, blocklist TokenPurger, cfg *config.Config, logger *zap.Logger) *CredentialPurgeJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)
	return &CredentialPurgeJob{
		users:     users,
		blocklist: blocklist,
		schedule:  cfg.PurgeExpiredCredentialsSchedule,
		logger:    logger.Named("CredentialPurgeJob"),
		scheduler: scheduler,
		now:       time.Now,
	}
}

// SetupAndStart schedules the job. An empty schedule leaves it disabled.
func (j *CredentialPurgeJob) SetupAndStart() error {
	if j.schedule == "" {
		j.logger.Info("Credential purge job disabled (PURGE_EXPIRED_CREDENTIALS_SCHEDULE not set)")
		return nil
	}

	jobID, err := j.scheduler.AddFunc(j.schedule, j.run)
	if err != nil {
		j.logger.Error("Failed to schedule credential purge job", zap.String("schedule", j.schedule), zap.Error(err))
		return err
	}

	j.logger.Info("Credential purge job scheduled", zap.String("schedule", j.schedule), zap.Any("jobID", jobID))
	j.scheduler.Start()
	return nil
}

func (j *CredentialPurgeJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()
	j.RunOnce(ctx)
}

// RunOnce performs one purge pass. Each step runs even if the other fails.
func (j *CredentialPurgeJob) RunOnce(ctx context.Context) {
	now := j.now()

	cleared, err := j.users.PurgeExpiredCredentials(ctx, now)
	if err != nil {
		j.logger.Error("Purging expired user credentials failed", zap.Error(err))
	} else {
		j.logger.Info("Expired user credentials purged", zap.Int64("users_cleared", cleared))
	}

	removed, err := j.blocklist.PurgeExpired(ctx, now)
	if err != nil {
		j.logger.Error("Purging revoked tokens failed", zap.Error(err))
	} else {
		j.logger.Info("Expired revoked tokens purged", zap.Int64("tokens_removed", removed))
	}
}

// Stop waits up to 10 seconds for a running pass to finish.
func (j *CredentialPurgeJob) Stop() {
	stopCtx := j.scheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Credential purge scheduler stopped")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Credential purge scheduler stop timed out")
	}
}
