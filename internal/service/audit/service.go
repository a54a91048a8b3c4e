package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/access"
)

// Service журнал административных действий
type Service struct {
	repo   Repository
	now    func() time.Time
	logger Logger
}

// NewService создает сервис журнала
func NewService(repo Repository, logger Logger) *Service {
	return &Service{repo: repo, now: time.Now, logger: logger}
}

// Record добавляет запись о действии. Ошибка записи логируется и не возвращается:
// журнал не влияет на результат основной операции.
func (s *Service) Record(ctx context.Context, actor domain.Principal, action domain.AuditAction, entity string, entityID int64, details string) {
	event := &domain.AuditEvent{
		EventID:   uuid.NewString(),
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}

	if err := s.repo.Append(ctx, event); err != nil {
		s.logger.Error("Audit: failed to record action=%s entity=%s id=%d actor=%d: %v",
			action, entity, entityID, actor.ID, err)
		return
	}
	s.logger.Info("Audit: action=%s entity=%s id=%d actor=%d", action, entity, entityID, actor.ID)
}

// Cleanup удаляет записи старше retention
func (s *Service) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	deleted, err := s.repo.DeleteOlderThan(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("%w: cleanup: %v", ErrInternal, err)
	}
	return deleted, nil
}

// Events возвращает записи за период [from, to) с проверкой прав
func (s *Service) Events(ctx context.Context, actor domain.Principal, from, to time.Time) ([]*domain.AuditEvent, error) {
	if err := access.Check(actor, domain.OwnershipChain{}, access.ActionExportAudit); err != nil {
		s.logger.Warn("AuditEvents: access denied for user=%d", actor.ID)
		return nil, err
	}
	if !from.Before(to) {
		return nil, ErrInvalidPeriod
	}

	events, err := s.repo.List(ctx, from, to)
	if err != nil {
		s.logger.Error("AuditEvents: repository error: %v", err)
		return nil, fmt.Errorf("%w: list events: %v", ErrInternal, err)
	}
	return events, nil
}
