package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/repository"
)

type OutboxTaskRepo struct{}

func NewOutboxTaskRepo() *OutboxTaskRepo {
	return &OutboxTaskRepo{}
}

// CreateTx enqueues an event on the same transaction as the state
// change it describes.
func (r *OutboxTaskRepo) CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO outbox_tasks (id, topic, payload, status, attempts, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, task.ID, task.Topic, task.Payload, task.Status, task.Attempts, task.CreatedAt)
	return err
}

// GetProcessableTasks picks up fresh tasks plus failed ones that still
// have retry budget left.
func (r *OutboxTaskRepo) GetProcessableTasks(ctx context.Context, database db.DB, limit, maxAttempts int) ([]*repository.OutboxTask, error) {
	var tasks []*repository.OutboxTask
	err := database.Select(ctx, &tasks, `
        SELECT * FROM outbox_tasks
        WHERE status = $1 OR (status = $2 AND attempts < $3)
        ORDER BY created_at ASC
        LIMIT $4
    `, repository.TaskStatusCreated, repository.TaskStatusFailed, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get processable outbox tasks: %w", err)
	}
	return tasks, nil
}

const updateTaskStatusQuery = `
        UPDATE outbox_tasks
        SET status = $1, attempts = $2, last_error = $3, completed_at = $4
        WHERE id = $5`

func (r *OutboxTaskRepo) UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error {
	_, err := tx.Exec(ctx, updateTaskStatusQuery, status, attempts, lastError, completedAt, id)
	return err
}

func (r *OutboxTaskRepo) UpdateTaskStatus(ctx context.Context, database db.DB, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error {
	_, err := database.Exec(ctx, updateTaskStatusQuery, status, attempts, lastError, completedAt, id)
	return err
}
