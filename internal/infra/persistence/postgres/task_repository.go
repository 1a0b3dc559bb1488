// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/repository"
	"taskboard/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// taskRepository implements the domain's TaskRepository interface using GORM.
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository is the constructor for taskRepository.
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

// Create persists a new task entity to the database.
func (repo *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	taskM := fromTaskDomain(task)

	if err := repo.db.WithContext(ctx).Create(taskM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create task")
	}

	task.ID = taskM.ID
	task.CreatedAt = taskM.CreatedAt
	task.UpdatedAt = taskM.UpdatedAt

	return nil
}

// FindByIDAndOwner retrieves a single task scoped to its owner.
// Scoping every lookup by owner keeps another user's task IDs
// indistinguishable from nonexistent ones.
func (repo *taskRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entity.Task, error) {
	var taskM model.TaskModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&taskM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}

		return nil, errors.Wrap(err, "failed to find task by id")
	}

	return toTaskDomain(&taskM), nil
}

// ListByOwner retrieves every task belonging to the given owner,
// newest first.
func (repo *taskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Task, error) {
	var taskMs []*model.TaskModel
	err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&taskMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks by owner")
	}

	tasks := make([]*entity.Task, 0, len(taskMs))
	for _, taskM := range taskMs {
		tasks = append(tasks, toTaskDomain(taskM))
	}

	return tasks, nil
}

// Update modifies an existing task. The WHERE clause includes the owner so a
// stale or forged ID never touches another user's row.
func (repo *taskRepository) Update(ctx context.Context, task *entity.Task) error {
	result := repo.db.WithContext(ctx).
		Model(&model.TaskModel{}).
		Where("id = ? AND owner_id = ?", task.ID, task.OwnerID).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update task")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	// Re-read to pick up the refreshed updated_at timestamp.
	var taskM model.TaskModel
	if err := repo.db.WithContext(ctx).First(&taskM, task.ID).Error; err == nil {
		task.UpdatedAt = taskM.UpdatedAt
	}

	return nil
}

// DeleteByIDAndOwner removes a task scoped to its owner.
func (repo *taskRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.TaskModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete task")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	return nil
}

func toTaskDomain(data *model.TaskModel) *entity.Task {
	if data == nil {
		return nil
	}

	return &entity.Task{
		ID:          data.ID,
		OwnerID:     data.OwnerID,
		Title:       data.Title,
		Description: data.Description,
		Completed:   data.Completed,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromTaskDomain(data *entity.Task) *model.TaskModel {
	if data == nil {
		return nil
	}

	return &model.TaskModel{
		ID:          data.ID,
		OwnerID:     data.OwnerID,
		Title:       data.Title,
		Description: data.Description,
		Completed:   data.Completed,
	}
}
