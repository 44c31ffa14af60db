package service

import (
	"context"
	"errors"
	"time"

	commoncrypto "github.com/todolite/todolite/internal/common/crypto"
	commonerrors "github.com/todolite/todolite/internal/common/errors"
	"github.com/todolite/todolite/internal/common/logger"
	"github.com/todolite/todolite/internal/observability/metrics"
	"github.com/todolite/todolite/internal/todo/domain"
	todorepo "github.com/todolite/todolite/internal/todo/repository"
)

type TodoService struct {
	repo        todorepo.Repository
	idGenerator commoncrypto.IDGenerator
	now         func() time.Time
	log         *logger.Logger
}

func NewTodoService(
	repo todorepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	log *logger.Logger,
) *TodoService {
	return &TodoService{
		repo:        repo,
		idGenerator: idGenerator,
		now:         time.Now,
		log:         log,
	}
}

func (s *TodoService) List(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	todos, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"action":  "todo_list_failed",
		}).Errorf("list todos failed: %v", err)
		metrics.TodoListReadsTotal.WithLabelValues("error").Inc()
		return nil, commonerrors.ErrTodoListFailed.WithCause(err)
	}

	metrics.TodoListReadsTotal.WithLabelValues("ok").Inc()
	return todos, nil
}

func (s *TodoService) Add(ctx context.Context, ownerID, content string) (domain.Todo, error) {
	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"action":  "todo_add_id_failed",
		}).Errorf("add todo failed: id generation error: %v", err)
		metrics.TodoMutationsTotal.WithLabelValues("add", "error").Inc()
		return domain.Todo{}, commonerrors.ErrTodoCreateFailed.WithCause(err)
	}

	todo := domain.Todo{
		ID:        id,
		OwnerID:   ownerID,
		Content:   content,
		Completed: false,
		CreatedAt: s.now(),
	}

	if err := s.repo.Insert(ctx, todo); err != nil {
		action := "todo_add_failed"
		if errors.Is(err, todorepo.ErrOwnerNotFound) {
			action = "todo_add_owner_missing"
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"todo_id": id,
			"action":  action,
		}).Errorf("add todo failed: %v", err)
		metrics.TodoMutationsTotal.WithLabelValues("add", "error").Inc()
		return domain.Todo{}, commonerrors.ErrTodoCreateFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": ownerID,
		"todo_id": id,
		"action":  "todo_add_success",
	}).Info("todo added")
	metrics.TodoMutationsTotal.WithLabelValues("add", "ok").Inc()

	return todo, nil
}

func (s *TodoService) SetCompleted(ctx context.Context, ownerID, id string, completed bool) error {
	if err := s.repo.SetCompleted(ctx, id, ownerID, completed); err != nil {
		if errors.Is(err, todorepo.ErrTodoNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": ownerID,
				"todo_id": id,
				"action":  "todo_update_not_found",
			}).Warn("update todo failed: not found")
			metrics.TodoMutationsTotal.WithLabelValues("update", "not_found").Inc()
			return commonerrors.ErrTodoNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"todo_id": id,
			"action":  "todo_update_failed",
		}).Errorf("update todo failed: %v", err)
		metrics.TodoMutationsTotal.WithLabelValues("update", "error").Inc()
		return commonerrors.ErrTodoUpdateFailed.WithCause(err)
	}

	metrics.TodoMutationsTotal.WithLabelValues("update", "ok").Inc()
	return nil
}

func (s *TodoService) Remove(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, todorepo.ErrTodoNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": ownerID,
				"todo_id": id,
				"action":  "todo_delete_not_found",
			}).Warn("delete todo failed: not found")
			metrics.TodoMutationsTotal.WithLabelValues("delete", "not_found").Inc()
			return commonerrors.ErrTodoNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"todo_id": id,
			"action":  "todo_delete_failed",
		}).Errorf("delete todo failed: %v", err)
		metrics.TodoMutationsTotal.WithLabelValues("delete", "error").Inc()
		return commonerrors.ErrTodoDeleteFailed.WithCause(err)
	}

	metrics.TodoMutationsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}
