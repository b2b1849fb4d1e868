package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/admindesk/admindesk/internal/endpoints"
)

// EndpointsResyncJob replays the route manifest into the endpoint registry.
type EndpointsResyncJob struct {
	service *endpoints.Service
	logger  *slog.Logger
}

func NewEndpointsResyncJob(service *endpoints.Service, logger *slog.Logger) *EndpointsResyncJob {
	return &EndpointsResyncJob{service: service, logger: logger}
}

// Handle processes TaskEndpointsResync tasks.
func (j *EndpointsResyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	if err := j.service.SyncManifest(ctx, endpoints.DefaultManifest()); err != nil {
		j.logger.Error("endpoints resync", slog.Any("error", err))
		return err
	}
	return nil
}
