// Package services orchestrates writes across storage and the event stream.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

// ExpenseService couples expense writes with change-event publishing. The
// database write is authoritative; event publishing is best-effort and never
// fails the request.
type ExpenseService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewExpenseService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateExpense validates category visibility, persists the expense and
// publishes a created event.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	// The category must be a default or one the owner holds; a foreign
	// custom category reads as not found, never as forbidden.
	if _, err := s.storage.GetCategoryForOwner(ctx, e.OwnerID, e.CategoryID); err != nil {
		return core.Expense{}, err
	}

	created, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publishEvent(ctx, created.ID, created.OwnerID, amqp.ActionCreated)
	return created, nil
}

// UpdateExpense overwrites amount, category, date and description of an
// owned expense and publishes an updated event.
func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if _, err := s.storage.GetCategoryForOwner(ctx, e.OwnerID, e.CategoryID); err != nil {
		return core.Expense{}, err
	}

	updated, err := s.storage.UpdateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, err
	}

	s.publishEvent(ctx, updated.ID, updated.OwnerID, amqp.ActionUpdated)
	return updated, nil
}

// DeleteExpense removes an owned expense and publishes a deleted event.
func (s *ExpenseService) DeleteExpense(ctx context.Context, ownerID, id int64) error {
	if err := s.storage.DeleteExpense(ctx, ownerID, id); err != nil {
		return err
	}

	s.publishEvent(ctx, id, ownerID, amqp.ActionDeleted)
	return nil
}

func (s *ExpenseService) publishEvent(ctx context.Context, expenseID, ownerID int64, action string) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping expense event",
			"expense_id", expenseID, "action", action)
		return
	}

	if err := s.amqpClient.PublishExpenseEvent(ctx, amqp.NewExpenseEvent(expenseID, ownerID, action)); err != nil {
		// The expense write already succeeded; the audit trail catches up
		// when the broker returns.
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"expense_id", expenseID, "action", action, "error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
