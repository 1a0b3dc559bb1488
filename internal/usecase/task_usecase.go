package usecase

import (
	"context"

	"taskboard/internal/domain/entity"
)

// --- Input DTOs ---

// CreateTaskInput defines the data required to create a task in a user's board.
// Actor is the authenticated user performing the operation; OwnerID is the
// board owner addressed by the request. They must match.
type CreateTaskInput struct {
	Actor       *entity.User
	OwnerID     int64
	Title       string
	Description string
	Completed   bool
}

// UpdateTaskInput defines the data required to replace a task's content.
type UpdateTaskInput struct {
	Actor       *entity.User
	OwnerID     int64
	TaskID      int64
	Title       string
	Description string
	Completed   bool
}

// TaskRefInput addresses a single existing task in a user's board.
type TaskRefInput struct {
	Actor   *entity.User
	OwnerID int64
	TaskID  int64
}

// ListTasksInput addresses a user's whole board.
type ListTasksInput struct {
	Actor   *entity.User
	OwnerID int64
}

// TaskUsecase defines the interface for task-related business operations.
// Every operation authorizes the actor against the addressed board owner
// before touching storage.
type TaskUsecase interface {
	CreateTask(ctx context.Context, input *CreateTaskInput) (*entity.Task, error)
	ListTasks(ctx context.Context, input *ListTasksInput) ([]*entity.Task, error)
	GetTask(ctx context.Context, input *TaskRefInput) (*entity.Task, error)
	UpdateTask(ctx context.Context, input *UpdateTaskInput) (*entity.Task, error)
	DeleteTask(ctx context.Context, input *TaskRefInput) error
	ToggleCompletion(ctx context.Context, input *TaskRefInput) (*entity.Task, error)
}
