package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultAuditRetentionDays = 90

// AuditPruneJob trims old rows out of audit_logs.
type AuditPruneJob struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAuditPruneJob(pool *pgxpool.Pool, logger *slog.Logger) *AuditPruneJob {
	return &AuditPruneJob{pool: pool, logger: logger}
}

// Handle processes TaskAuditPrune tasks.
func (j *AuditPruneJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuditPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	days := payload.Days()
	tag, err := j.pool.Exec(ctx,
		`DELETE FROM audit_logs WHERE occurred_at < NOW() - make_interval(days => $1)`, days)
	if err != nil {
		j.logger.Error("audit prune", slog.Any("error", err))
		return err
	}
	j.logger.Info("audit prune completed",
		slog.Int64("deleted", tag.RowsAffected()),
		slog.Int("retention_days", days))
	return nil
}
