package impl

import (
	"context"
	"log/slog"
	"unicode/utf8"

	deliverycontext "taskboard/internal/delivery/context"
	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/repository"
	"taskboard/internal/domain/service"
	"taskboard/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// taskService implements the TaskUsecase interface.
type taskService struct {
	txManager repository.TransactionManager
	taskRepo  repository.TaskRepository
	logger    *slog.Logger
}

// TaskServiceParams holds dependencies for taskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	TaskRepo  repository.TaskRepository
	Logger    *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		txManager: params.TxManager,
		taskRepo:  params.TaskRepo,
		logger:    params.Logger,
	}
}

func (srv *taskService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateTask adds a new task to the actor's own board.
func (srv *taskService) CreateTask(ctx context.Context, input *usecase.CreateTaskInput) (*entity.Task, error) {
	if err := service.Authorize(input.Actor, input.OwnerID); err != nil {
		srv.logDenied(ctx, "create", input.Actor, input.OwnerID)

		return nil, err
	}

	if err := validateTaskContent(input.Title, input.Description); err != nil {
		return nil, err
	}

	task := &entity.Task{
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	}

	if err := srv.taskRepo.Create(ctx, task); err != nil {
		srv.log(ctx).Error("Failed to create task", slog.Int64("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create task")
	}

	srv.log(ctx).Debug("Task created", slog.Int64("taskID", task.ID), slog.Int64("ownerID", task.OwnerID))

	return task, nil
}

// ListTasks returns every task in the actor's own board.
func (srv *taskService) ListTasks(ctx context.Context, input *usecase.ListTasksInput) ([]*entity.Task, error) {
	if err := service.Authorize(input.Actor, input.OwnerID); err != nil {
		srv.logDenied(ctx, "list", input.Actor, input.OwnerID)

		return nil, err
	}

	tasks, err := srv.taskRepo.ListByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}

	return tasks, nil
}

// GetTask returns a single task from the actor's own board.
func (srv *taskService) GetTask(ctx context.Context, input *usecase.TaskRefInput) (*entity.Task, error) {
	if err := service.Authorize(input.Actor, input.OwnerID); err != nil {
		srv.logDenied(ctx, "get", input.Actor, input.OwnerID)

		return nil, err
	}

	task, err := srv.taskRepo.FindByIDAndOwner(ctx, input.TaskID, input.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound
		}

		return nil, errors.Wrap(err, "failed to find task")
	}

	return task, nil
}

// UpdateTask replaces the content of an existing task.
func (srv *taskService) UpdateTask(ctx context.Context, input *usecase.UpdateTaskInput) (*entity.Task, error) {
	if err := service.Authorize(input.Actor, input.OwnerID); err != nil {
		srv.logDenied(ctx, "update", input.Actor, input.OwnerID)

		return nil, err
	}

	if err := validateTaskContent(input.Title, input.Description); err != nil {
		return nil, err
	}

	var updated *entity.Task
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		taskRepo := repoFactory.NewTaskRepository()

		task, findErr := taskRepo.FindByIDAndOwner(ctx, input.TaskID, input.OwnerID)
		if findErr != nil {
			return findErr
		}

		task.Title = input.Title
		task.Description = input.Description
		task.Completed = input.Completed

		if updateErr := taskRepo.Update(ctx, task); updateErr != nil {
			return updateErr
		}

		updated = task

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound
		}

		srv.log(ctx).Error("Failed to update task", slog.Int64("taskID", input.TaskID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update task")
	}

	srv.log(ctx).Debug("Task updated", slog.Int64("taskID", updated.ID))

	return updated, nil
}

// DeleteTask removes a task from the actor's own board.
func (srv *taskService) DeleteTask(ctx context.Context, input *usecase.TaskRefInput) error {
	if err := service.Authorize(input.Actor, input.OwnerID); err != nil {
		srv.logDenied(ctx, "delete", input.Actor, input.OwnerID)

		return err
	}

	if err := srv.taskRepo.DeleteByIDAndOwner(ctx, input.TaskID, input.OwnerID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return domainerrors.ErrTaskNotFound
		}

		return errors.Wrap(err, "failed to delete task")
	}

	srv.log(ctx).Debug("Task deleted", slog.Int64("taskID", input.TaskID))

	return nil
}

// ToggleCompletion flips a task's completion flag. Applying it twice restores
// the original state. Read and write run in one transaction so concurrent
// toggles cannot interleave.
func (srv *taskService) ToggleCompletion(ctx context.Context, input *usecase.TaskRefInput) (*entity.Task, error) {
	if err := service.Authorize(input.Actor, input.OwnerID); err != nil {
		srv.logDenied(ctx, "toggle", input.Actor, input.OwnerID)

		return nil, err
	}

	var toggled *entity.Task
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		taskRepo := repoFactory.NewTaskRepository()

		task, findErr := taskRepo.FindByIDAndOwner(ctx, input.TaskID, input.OwnerID)
		if findErr != nil {
			return findErr
		}

		task.Completed = !task.Completed

		if updateErr := taskRepo.Update(ctx, task); updateErr != nil {
			return updateErr
		}

		toggled = task

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound
		}

		srv.log(ctx).Error("Failed to toggle task completion", slog.Int64("taskID", input.TaskID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to toggle task completion")
	}

	srv.log(ctx).Debug("Task completion toggled", slog.Int64("taskID", toggled.ID), slog.Bool("completed", toggled.Completed))

	return toggled, nil
}

func (srv *taskService) logDenied(ctx context.Context, op string, actor *entity.User, ownerID int64) {
	attrs := []any{slog.String("operation", op), slog.Int64("ownerID", ownerID)}
	if actor != nil {
		attrs = append(attrs, slog.Int64("actorID", actor.ID))
	}
	srv.log(ctx).Warn("Task access denied", attrs...)
}

func validateTaskContent(title, description string) error {
	if title == "" {
		return domainerrors.ErrInvalidTask.WithDetails("title must not be empty")
	}
	// Limits count characters, not bytes, so multibyte input is not penalized.
	if utf8.RuneCountInString(title) > entity.TaskTitleMaxLen {
		return domainerrors.ErrInvalidTask.WithDetails("title must be at most 255 characters")
	}
	if utf8.RuneCountInString(description) > entity.TaskDescriptionMaxLen {
		return domainerrors.ErrInvalidTask.WithDetails("description must be at most 1000 characters")
	}

	return nil
}
