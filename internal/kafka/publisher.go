package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/repository"
)

type OutboxTaskRepository interface {
	GetProcessableTasks(ctx context.Context, database db.DB, limit, maxAttempts int) ([]*repository.OutboxTask, error)
	UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
	UpdateTaskStatus(ctx context.Context, database db.DB, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}

type PublisherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Publisher drains the outbox: transitions write their events on the
// same transaction as the order update, and this worker delivers them
// to Kafka with at-least-once semantics.
type Publisher struct {
	db             db.DB
	repo           OutboxTaskRepository
	producer       Producer
	config         PublisherConfig
	logger         *zap.Logger
	wg             sync.WaitGroup
	shutdownSignal chan struct{}
	stopOnce       sync.Once
}

func NewPublisher(database db.DB, repo OutboxTaskRepository, producer Producer, config PublisherConfig, logger *zap.Logger) *Publisher {
	return &Publisher{
		db:             database,
		repo:           repo,
		producer:       producer,
		config:         config,
		logger:         logger,
		shutdownSignal: make(chan struct{}),
	}
}

func (p *Publisher) Run(ctx context.Context) {
	p.logger.Info("starting outbox publisher")
	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error("outbox publisher failed to process batch", zap.Error(err))
			}
		case <-p.shutdownSignal:
			p.logger.Info("outbox publisher received shutdown signal, stopping")
			return
		case <-ctx.Done():
			p.Shutdown()
			return
		}
	}
}

func (p *Publisher) Shutdown() {
	p.stopOnce.Do(func() {
		close(p.shutdownSignal)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			p.logger.Info("outbox publisher shutdown complete")
		case <-shutdownCtx.Done():
			p.logger.Warn("outbox publisher shutdown timed out")
		}

		if err := p.producer.Close(); err != nil {
			p.logger.Error("failed to close kafka producer", zap.Error(err))
		}
	})
}

func (p *Publisher) processBatch(ctx context.Context) error {
	tx, err := p.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for fetching tasks: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	tasks, err := p.repo.GetProcessableTasks(ctx, p.db, p.config.BatchSize, p.config.MaxAttempts)
	if err != nil {
		return fmt.Errorf("failed to get processable tasks: %w", err)
	}

	if len(tasks) == 0 {
		return tx.Commit(ctx)
	}

	for _, task := range tasks {
		err := p.repo.UpdateTaskStatusTx(ctx, tx, task.ID, repository.TaskStatusProcessing, task.Attempts, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to mark task %s as PROCESSING: %w", task.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit after marking tasks as PROCESSING: %w", err)
	}

	for _, task := range tasks {
		select {
		case <-p.shutdownSignal:
			return errors.New("publisher shutdown during batch processing")
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.processSingleTask(ctx, task); err != nil {
			p.logger.Error("failed to process outbox task",
				zap.String("task_id", task.ID.String()), zap.Error(err))
		}
	}

	return nil
}

func (p *Publisher) processSingleTask(ctx context.Context, task *repository.OutboxTask) error {
	kafkaKey := []byte(task.ID.String())

	err := p.producer.SendMessage(ctx, task.Topic, kafkaKey, task.Payload)
	if err != nil {
		newAttempts := task.Attempts + 1
		errMsg := err.Error()

		if newAttempts >= p.config.MaxAttempts {
			p.logger.Warn("outbox task reached max attempts, marking FAILED permanently",
				zap.String("task_id", task.ID.String()), zap.Int("attempts", newAttempts))
		}

		updateErr := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusFailed, newAttempts, &errMsg, nil)
		if updateErr != nil {
			return fmt.Errorf("failed to update task status after send failure: %w", updateErr)
		}
		return err
	}

	now := time.Now().UTC()
	if err := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusDone, task.Attempts, nil, &now); err != nil {
		return fmt.Errorf("failed to update task status after successful send: %w", err)
	}

	return nil
}
