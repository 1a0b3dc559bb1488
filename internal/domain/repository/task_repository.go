// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"taskboard/internal/domain/entity"
)

// ErrTaskNotFound is returned when a task does not exist for the given owner.
// A task that exists but belongs to a different owner is indistinguishable
// from an absent one at this layer.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository defines the standard operations for task persistence.
// Every lookup is scoped to an owner so the isolation invariant cannot be
// bypassed by a caller forgetting a filter.
type TaskRepository interface {
	// Create persists a new task entity to the storage.
	Create(ctx context.Context, task *entity.Task) error

	// FindByIDAndOwner retrieves a task by its ID, restricted to the given owner.
	FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entity.Task, error)

	// ListByOwner retrieves all tasks belonging to the given owner.
	ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Task, error)

	// Update modifies an existing task. The task's ID and OwnerID select the row.
	Update(ctx context.Context, task *entity.Task) error

	// DeleteByIDAndOwner removes a task by its ID, restricted to the given owner.
	DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error
}
