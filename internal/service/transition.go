package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/kafka"
	"github.com/printhub-store/backend/internal/metrics"
	"github.com/printhub-store/backend/internal/order"
	"github.com/printhub-store/backend/internal/repository"
)

// TransitionRequest is one lifecycle action against one order line.
type TransitionRequest struct {
	Action     order.Action
	Reason     string
	ReturnType order.ReturnType
}

type orderEvent struct {
	OrderID        string    `json:"order_id"`
	GroupID        string    `json:"group_id"`
	UserID         string    `json:"user_id"`
	SellerID       string    `json:"seller_id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
	At             time.Time `json:"at"`
}

// Transition drives the order through one state-machine step. The row
// is locked for the duration, and the order update, the notification
// (when the step mandates one) and the outbox event land on a single
// commit: the order never advances silently and no orphan notification
// survives a failed update.
func (s *OrderService) Transition(ctx context.Context, orderID string, req TransitionRequest) (*order.Order, error) {
	now := s.now()
	var updated *order.Order

	err := db.InTx(ctx, s.db, func(tx db.Tx) error {
		row, err := s.orders.GetByIDTx(ctx, tx, orderID)
		if err != nil {
			return err
		}

		o, err := toDomain(row)
		if err != nil {
			return fmt.Errorf("failed to decode order %s: %w", orderID, err)
		}

		result, err := o.Transition(order.Request{
			Action:     req.Action,
			Reason:     req.Reason,
			ReturnType: req.ReturnType,
			Now:        now,
		})
		if err != nil {
			return err
		}

		updatedRow, err := fromDomain(o)
		if err != nil {
			return err
		}
		if err := s.orders.UpdateTx(ctx, tx, updatedRow); err != nil {
			return fmt.Errorf("failed to update order %s: %w", orderID, err)
		}

		if result.Notice != nil {
			if err := s.createNotificationTx(ctx, tx, o, result.Notice, now); err != nil {
				return err
			}
		}

		if err := s.enqueueEventTx(ctx, tx, o, result, now); err != nil {
			return err
		}

		updated = o
		return nil
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("transition").Inc()
		return nil, err
	}

	metrics.TransitionsTotal.WithLabelValues(string(req.Action)).Inc()
	s.cache.Set(updated)
	s.logger.Info("order transition applied",
		zap.String("order_id", updated.ID),
		zap.String("action", string(req.Action)),
		zap.String("status", string(updated.Status)),
	)

	return updated, nil
}

func (s *OrderService) createNotificationTx(ctx context.Context, tx db.Tx, o *order.Order, notice *order.Notice, now time.Time) error {
	sellerMobiles, err := s.shops.GetMobileNumbersTx(ctx, tx, o.SellerID)
	if err != nil {
		return fmt.Errorf("failed to load shop contacts for seller %s: %w", o.SellerID, err)
	}

	n := &repository.Notification{
		ID:                  s.newID(),
		UserID:              o.UserID,
		OrderID:             o.ID,
		Title:               notice.Title,
		Message:             notice.Message,
		SellerMobileNumbers: sellerMobiles,
		CreatedAt:           now,
	}
	if err := s.notifications.CreateTx(ctx, tx, n); err != nil {
		return fmt.Errorf("failed to create notification for order %s: %w", o.ID, err)
	}

	metrics.NotificationsCreatedTotal.Inc()
	return nil
}

func (s *OrderService) enqueueEventTx(ctx context.Context, tx db.Tx, o *order.Order, result *order.Result, now time.Time) error {
	payload, err := json.Marshal(orderEvent{
		OrderID:        o.ID,
		GroupID:        o.GroupID,
		UserID:         o.UserID,
		SellerID:       o.SellerID,
		PreviousStatus: string(result.Previous),
		Status:         string(result.Status),
		At:             now,
	})
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	task := &repository.OutboxTask{
		ID:        uuid.New(),
		Topic:     kafka.TopicOrderEvents,
		Payload:   payload,
		Status:    repository.TaskStatusCreated,
		CreatedAt: now,
	}
	if err := s.outbox.CreateTx(ctx, tx, task); err != nil {
		return fmt.Errorf("failed to enqueue order event for order %s: %w", o.ID, err)
	}
	return nil
}
