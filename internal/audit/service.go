package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/asset-custody/internal/core/common/pagination"
	auditDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/audit"
)

// Recorder is what the directories and the ledger write through. Record must be called inside
// the caller's transaction so the entry commits or rolls back with the change.
type Recorder interface {
	Record(ctx context.Context, actorUserID int64, action, entity string, entityID int64, detail string) error
}

type RepositoryAPI interface {
	Create(ctx context.Context, log *auditDatamodel.Log) error
	List(ctx context.Context, filter ListFilter) ([]*auditDatamodel.Log, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Record(ctx context.Context, actorUserID int64, action, entity string, entityID int64, detail string) error {
	row := ToDataModel(&Entry{
		ActorUserID: actorUserID,
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		Detail:      detail,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to write audit entry", "action", action, "entity", entity, "entity_id", entityID, "error", err)
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	filter.Limit, filter.Offset = pagination.Normalize(filter.Limit, filter.Offset)

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	entries := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FromDataModel(row))
	}
	return entries, nil
}
