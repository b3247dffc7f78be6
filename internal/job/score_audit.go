package job

import (
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"community-feed-api/internal/domain"
	"community-feed-api/internal/metrics"
)

// repairQuery rewrites the materialized score of every row whose score
// drifted from the sum of its vote rows. Drift should not happen while
// every vote mutation recomputes inside its own transaction, but a crash
// between statements or a manual data fix can leave stragglers.
const repairQuery = `
UPDATE %TABLE% SET score = COALESCE(
	(SELECT SUM(value) FROM votes WHERE votes.target_type = ? AND votes.target_id = %TABLE%.id), 0)
WHERE score <> COALESCE(
	(SELECT SUM(value) FROM votes WHERE votes.target_type = ? AND votes.target_id = %TABLE%.id), 0)`

// ScoreAuditJob periodically reconciles materialized post and comment
// scores against the vote rows they are derived from
type ScoreAuditJob struct {
	db      *gorm.DB
	cron    *cron.Cron
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewScoreAuditJob creates a new score audit job
func NewScoreAuditJob(db *gorm.DB, m *metrics.Metrics, logger *zap.Logger) *ScoreAuditJob {
	return &ScoreAuditJob{
		db:      db,
		cron:    cron.New(),
		metrics: m,
		logger:  logger,
	}
}

// Start schedules the audit and begins the cron loop
func (j *ScoreAuditJob) Start(schedule string) error {
	if schedule == "" {
		schedule = "@every 10m"
	}
	if _, err := j.cron.AddFunc(schedule, j.Run); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Score audit job scheduled", zap.String("schedule", schedule))
	return nil
}

// Stop stops the cron loop, waiting for a running audit to finish
func (j *ScoreAuditJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// Run executes one audit pass over both vote targets
func (j *ScoreAuditJob) Run() {
	repaired := j.repair("posts", domain.TargetPost) + j.repair("comments", domain.TargetComment)
	if repaired > 0 {
		if j.metrics != nil {
			j.metrics.AddScoreRepairs(repaired)
		}
		j.logger.Warn("Score audit repaired drifted scores", zap.Int64("repaired", repaired))
	}
}

func (j *ScoreAuditJob) repair(table string, target domain.TargetType) int64 {
	query := strings.ReplaceAll(repairQuery, "%TABLE%", table)
	result := j.db.Exec(query, target, target)
	if result.Error != nil {
		j.logger.Error("Score audit pass failed",
			zap.String("table", table),
			zap.Error(result.Error))
		return 0
	}
	return result.RowsAffected
}
