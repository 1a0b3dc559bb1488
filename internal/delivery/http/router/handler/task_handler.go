package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/delivery/http/middleware"
	"taskboard/internal/delivery/http/response"
	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TaskHandler holds dependencies for task-related handlers.
type TaskHandler struct {
	uc     usecase.TaskUsecase
	logger *slog.Logger
}

// NewTaskHandler is the constructor for TaskHandler, injected by Fx.
func NewTaskHandler(uc usecase.TaskUsecase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		uc:     uc,
		logger: logger,
	}
}

type taskContentRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type taskResponse struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTaskResponse(task *entity.Task) *taskResponse {
	if task == nil {
		return nil
	}

	return &taskResponse{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func toTaskListResponse(tasks []*entity.Task) []*taskResponse {
	out := make([]*taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}

	return out
}

// pathID parses a numeric path parameter. Zero and negative IDs are rejected
// the same way as non-numeric ones.
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// Create handles adding a task to a user's board.
func (h *TaskHandler) Create(c echo.Context) error {
	ownerID, ok := pathID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user id in path")
	}

	var req taskContentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.uc.CreateTask(c.Request().Context(), &usecase.CreateTaskInput{
		Actor:       middleware.CurrentUser(c),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toTaskResponse(task))
}

// List handles fetching every task in a user's board.
func (h *TaskHandler) List(c echo.Context) error {
	ownerID, ok := pathID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user id in path")
	}

	tasks, err := h.uc.ListTasks(c.Request().Context(), &usecase.ListTasksInput{
		Actor:   middleware.CurrentUser(c),
		OwnerID: ownerID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskListResponse(tasks))
}

// Get handles fetching a single task.
func (h *TaskHandler) Get(c echo.Context) error {
	ref, err := h.taskRef(c)
	if err != nil {
		return err
	}

	task, err := h.uc.GetTask(c.Request().Context(), ref)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskResponse(task))
}

// Update handles replacing a task's content.
func (h *TaskHandler) Update(c echo.Context) error {
	ref, err := h.taskRef(c)
	if err != nil {
		return err
	}

	var req taskContentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.uc.UpdateTask(c.Request().Context(), &usecase.UpdateTaskInput{
		Actor:       ref.Actor,
		OwnerID:     ref.OwnerID,
		TaskID:      ref.TaskID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskResponse(task))
}

// Delete handles removing a task.
func (h *TaskHandler) Delete(c echo.Context) error {
	ref, err := h.taskRef(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteTask(c.Request().Context(), ref); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleCompletion handles flipping a task's completion flag.
func (h *TaskHandler) ToggleCompletion(c echo.Context) error {
	ref, err := h.taskRef(c)
	if err != nil {
		return err
	}

	task, err := h.uc.ToggleCompletion(c.Request().Context(), ref)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) taskRef(c echo.Context) (*usecase.TaskRefInput, error) {
	ownerID, ok := pathID(c, "user_id")
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid user id in path")
	}

	taskID, ok := pathID(c, "task_id")
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid task id in path")
	}

	return &usecase.TaskRefInput{
		Actor:   middleware.CurrentUser(c),
		OwnerID: ownerID,
		TaskID:  taskID,
	}, nil
}
