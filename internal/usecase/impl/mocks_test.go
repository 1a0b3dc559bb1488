package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/repository"
	"taskboard/internal/domain/service"
)

// Hand-rolled stubs with overridable function fields. Unset fields fall back
// to not-found / zero behavior so each test only wires what it exercises.

type stubUserRepo struct {
	findByID    func(ctx context.Context, id int64) (*entity.User, error)
	findByEmail func(ctx context.Context, email string) (*entity.User, error)
	create      func(ctx context.Context, user *entity.User) error
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	if s.findByID != nil {
		return s.findByID(ctx, id)
	}

	return nil, repository.ErrUserNotFound
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if s.findByEmail != nil {
		return s.findByEmail(ctx, email)
	}

	return nil, repository.ErrUserNotFound
}

func (s *stubUserRepo) Create(ctx context.Context, user *entity.User) error {
	if s.create != nil {
		return s.create(ctx, user)
	}

	user.ID = 1

	return nil
}

type stubTaskRepo struct {
	create             func(ctx context.Context, task *entity.Task) error
	findByIDAndOwner   func(ctx context.Context, id, ownerID int64) (*entity.Task, error)
	listByOwner        func(ctx context.Context, ownerID int64) ([]*entity.Task, error)
	update             func(ctx context.Context, task *entity.Task) error
	deleteByIDAndOwner func(ctx context.Context, id, ownerID int64) error
}

func (s *stubTaskRepo) Create(ctx context.Context, task *entity.Task) error {
	if s.create != nil {
		return s.create(ctx, task)
	}

	task.ID = 1

	return nil
}

func (s *stubTaskRepo) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entity.Task, error) {
	if s.findByIDAndOwner != nil {
		return s.findByIDAndOwner(ctx, id, ownerID)
	}

	return nil, repository.ErrTaskNotFound
}

func (s *stubTaskRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Task, error) {
	if s.listByOwner != nil {
		return s.listByOwner(ctx, ownerID)
	}

	return nil, nil
}

func (s *stubTaskRepo) Update(ctx context.Context, task *entity.Task) error {
	if s.update != nil {
		return s.update(ctx, task)
	}

	return nil
}

func (s *stubTaskRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error {
	if s.deleteByIDAndOwner != nil {
		return s.deleteByIDAndOwner(ctx, id, ownerID)
	}

	return repository.ErrTaskNotFound
}

// stubTxManager runs the callback immediately against a factory backed by the
// given stub repositories. No real transaction semantics are simulated.
type stubTxManager struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

func (s *stubTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&stubRepoFactory{userRepo: s.userRepo, taskRepo: s.taskRepo})
}

type stubRepoFactory struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

func (s *stubRepoFactory) NewUserRepository() repository.UserRepository { return s.userRepo }
func (s *stubRepoFactory) NewTaskRepository() repository.TaskRepository { return s.taskRepo }

type stubHasher struct {
	hash  func(password string) (string, error)
	check func(password, hash string) bool
}

func (s *stubHasher) Hash(password string) (string, error) {
	if s.hash != nil {
		return s.hash(password)
	}

	return "hashed:" + password, nil
}

func (s *stubHasher) Check(password, hash string) bool {
	if s.check != nil {
		return s.check(password, hash)
	}

	return hash == "hashed:"+password
}

type stubTokenService struct {
	issue func(userID int64, ttl time.Duration) (string, error)
	ttl   time.Duration
}

func (s *stubTokenService) Issue(userID int64, ttl time.Duration) (string, error) {
	if s.issue != nil {
		return s.issue(userID, ttl)
	}

	return "token", nil
}

func (s *stubTokenService) Verify(tokenString string) (int64, error) {
	return 0, service.ErrTokenInvalid
}

func (s *stubTokenService) AccessTokenTTL() time.Duration {
	if s.ttl > 0 {
		return s.ttl
	}

	return 30 * time.Minute
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
