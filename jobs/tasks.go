package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskEndpointsResync re-runs the endpoint manifest sync so the
	// registry converges after deploys that add or rename routes.
	TaskEndpointsResync = "endpoints:resync"
	// TaskAuditPrune deletes audit log entries older than the retention
	// window.
	TaskAuditPrune = "audit:prune"
)

// EndpointsResyncPayload is empty today; kept as a struct so the task can
// grow fields without changing its wire type.
type EndpointsResyncPayload struct{}

// NewEndpointsResyncTask constructs the resync task.
func NewEndpointsResyncTask() (*asynq.Task, error) {
	data, err := json.Marshal(EndpointsResyncPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEndpointsResync, data), nil
}

// AuditPrunePayload controls the retention window.
type AuditPrunePayload struct {
	RetentionDays int `json:"retentionDays"`
}

// Days returns the retention window, falling back to the default when the
// payload carries no positive value.
func (p AuditPrunePayload) Days() int {
	if p.RetentionDays <= 0 {
		return defaultAuditRetentionDays
	}
	return p.RetentionDays
}

// NewAuditPruneTask constructs a prune task for the given retention window.
func NewAuditPruneTask(retentionDays int) (*asynq.Task, error) {
	data, err := json.Marshal(AuditPrunePayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPrune, data), nil
}
