package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/meridian-erp/meridian/internal/jobs"
	"github.com/meridian-erp/meridian/internal/masterdata/items"
	"github.com/meridian-erp/meridian/internal/tenant"
)

// ItemImportJob processes queued workbook imports row by row.
type ItemImportJob struct {
	Service *items.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewItemImportJob initialises the import handler.
func NewItemImportJob(service *items.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ItemImportJob {
	return &ItemImportJob{Service: service, Logger: logger, Metrics: metrics}
}

// Handle executes one import task.
func (j *ItemImportJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("item import: handler not configured")
	}
	var payload ItemImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.TenantID <= 0 || len(payload.Rows) == 0 {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskItemImport)
	ctx = tenant.ContextWithTenant(ctx, &tenant.Tenant{ID: payload.TenantID, IsActive: true})

	imported, err := j.Service.ImportRows(ctx, payload.Rows)
	if err != nil {
		j.Logger.Error("item import failed", "tenant", payload.TenantID, "error", err)
		return tracker.End(err)
	}
	j.Logger.Info("item import finished", "tenant", payload.TenantID, "rows", imported)
	return tracker.End(nil)
}
