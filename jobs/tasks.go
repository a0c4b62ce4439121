// Package jobs runs background work through Asynq: today that is the large
// master-data imports that are too slow for a request cycle.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskItemImport imports item rows uploaded as a workbook.
	TaskItemImport = "masterdata:item_import"
)

// ItemImportPayload carries one queued workbook import. Rows exclude the
// header row.
type ItemImportPayload struct {
	TenantID int64      `json:"tenant_id"`
	Rows     [][]string `json:"rows"`
}

// NewItemImportTask constructs an Asynq task.
func NewItemImportTask(payload ItemImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskItemImport, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueItemImport enqueues a workbook import for the worker.
func (c *Client) EnqueueItemImport(ctx context.Context, tenantID int64, rows [][]string) error {
	task, err := NewItemImportTask(ItemImportPayload{TenantID: tenantID, Rows: rows})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
