package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/printhub-store/backend/internal/kafka"
)

// AuditProducer publishes audit batches to the message broker.
type AuditProducer interface {
	SendMessage(ctx context.Context, topic string, key []byte, value []byte) error
}

// AuditManager aggregates audit log entries into batches and ships them
// to Kafka through a small worker pool. Entries that cannot be handed
// off before the request context is cancelled are logged directly.
type AuditManager struct {
	workerCount int
	batchSize   int
	timeout     time.Duration

	producer AuditProducer
	logger   *zap.Logger

	inputChan  chan AuditLogEntry
	batchChan  chan []AuditLogEntry
	shutdownCh chan struct{}
	once       sync.Once

	wg sync.WaitGroup
}

func NewAuditManager(
	workerCount, batchSize int,
	timeout time.Duration,
	producer AuditProducer,
	logger *zap.Logger,
) *AuditManager {
	return &AuditManager{
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		producer:    producer,
		logger:      logger,
		inputChan:   make(chan AuditLogEntry, workerCount*batchSize*2),
		batchChan:   make(chan []AuditLogEntry, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (m *AuditManager) Start(ctx context.Context) {
	m.logger.Info("starting audit manager",
		zap.Int("workers", m.workerCount),
		zap.Int("batch_size", m.batchSize))

	m.wg.Add(1)
	go m.runAggregator(ctx)

	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(ctx, i)
	}
}

func (m *AuditManager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		close(m.shutdownCh)

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.logger.Info("audit manager shutdown completed")
		case <-ctx.Done():
			m.logger.Warn("audit manager shutdown interrupted")
		}
	})
}

func (m *AuditManager) LogEntry(ctx context.Context, entry AuditLogEntry) {
	select {
	case m.inputChan <- entry:
	case <-ctx.Done():
		m.emergencyLog(entry)
	case <-m.shutdownCh:
		m.emergencyLog(entry)
	}
}

func (m *AuditManager) runAggregator(ctx context.Context) {
	defer m.wg.Done()

	var (
		batch    []AuditLogEntry
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
		if len(batch) > 0 {
			m.dispatchBatch(batch)
		}
		close(m.batchChan)
	}()

	for {
		select {
		case entry := <-m.inputChan:
			batch = append(batch, entry)
			if len(batch) >= m.batchSize {
				m.dispatchBatch(batch)
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(m.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			m.dispatchBatch(batch)
			batch = nil
			timeoutC = nil

		case <-ctx.Done():
			return

		case <-m.shutdownCh:
			return
		}
	}
}

func (m *AuditManager) dispatchBatch(batch []AuditLogEntry) {
	batchCopy := make([]AuditLogEntry, len(batch))
	copy(batchCopy, batch)

	select {
	case m.batchChan <- batchCopy:
	default:
		// Workers are saturated, publish from the caller instead of dropping.
		m.publishBatch(context.Background(), -1, batchCopy)
	}
}

func (m *AuditManager) runWorker(ctx context.Context, id int) {
	defer m.wg.Done()

	for {
		select {
		case batch, ok := <-m.batchChan:
			if !ok {
				return
			}
			m.publishBatch(ctx, id, batch)
		case <-ctx.Done():
			// Drain whatever the aggregator already dispatched.
			for {
				select {
				case batch, ok := <-m.batchChan:
					if !ok {
						return
					}
					m.publishBatch(context.Background(), id, batch)
				default:
					return
				}
			}
		}
	}
}

func (m *AuditManager) publishBatch(ctx context.Context, workerID int, batch []AuditLogEntry) {
	payload, err := json.Marshal(batch)
	if err != nil {
		m.logger.Error("failed to marshal audit batch", zap.Error(err))
		return
	}

	key := []byte(batch[0].Timestamp.UTC().Format(time.RFC3339Nano))
	if err := m.producer.SendMessage(ctx, kafka.TopicAuditLogs, key, payload); err != nil {
		m.logger.Error("failed to publish audit batch",
			zap.Int("worker_id", workerID),
			zap.Int("entries", len(batch)),
			zap.Error(err))
		for _, entry := range batch {
			m.emergencyLog(entry)
		}
	}
}

func (m *AuditManager) emergencyLog(entry AuditLogEntry) {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		m.logger.Error("failed to marshal audit entry", zap.Error(err))
		return
	}
	m.logger.Warn("audit entry logged directly", zap.ByteString("entry", entryJSON))
}
