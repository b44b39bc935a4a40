package item

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/audit"
	"github.com/frahmantamala/asset-custody/internal/core/common/pagination"
	"github.com/frahmantamala/asset-custody/internal/core/common/validation"
	itemDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/item"
	"github.com/frahmantamala/asset-custody/internal/core/deletion"
	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/store"
)

type RepositoryAPI interface {
	deletion.Target
	GetByID(ctx context.Context, id int64) (*itemDatamodel.Item, error)
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
	HasActiveAssignment(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter ListItemsFilter) ([]*itemDatamodel.Item, int64, error)
	Create(ctx context.Context, item *itemDatamodel.Item) error
	Update(ctx context.Context, item *itemDatamodel.Item) error
}

type Service struct {
	repo      RepositoryAPI
	tx        store.Transactor
	recorder  audit.Recorder
	publisher events.Publisher
	policy    deletion.Policy
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, tx store.Transactor, recorder audit.Recorder, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		tx:        tx,
		recorder:  recorder,
		publisher: publisher,
		policy:    deletion.NewPolicy(deletion.OutcomeRetired),
		logger:    logger,
	}
}

func (s *Service) validate(ctx context.Context, name string, categoryID int64) error {
	v := validation.NewValidator()
	v.Field("name", name).Required().MaxLength(MaxNameLength)
	v.Field("category_id", categoryID).Positive()

	if categoryID > 0 {
		exists, err := s.repo.CategoryExists(ctx, categoryID)
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if !exists {
			v.Add("category_id", fmt.Sprintf("category %d does not exist", categoryID), errors.ErrCodeInvalidReference)
		}
	}

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actingUserID int64, dto ItemDTO) (*Item, error) {
	row := &itemDatamodel.Item{
		Name:       strings.TrimSpace(dto.Name),
		CategoryID: dto.CategoryID,
		Status:     StatusAvailable,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, row.Name, row.CategoryID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, row); err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionCreate, audit.EntityItem, row.ID, row.Name)
	})
	if err != nil {
		s.logger.Warn("item create rejected", "name", row.Name, "error", err)
		return nil, err
	}

	s.logger.Info("item created", "item_id", row.ID, "category_id", row.CategoryID)
	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityItem, row.ID, audit.ActionCreate, actingUserID))
	return FromDataModel(row), nil
}

// Update changes name and category only; status belongs to the ledger.
func (s *Service) Update(ctx context.Context, actingUserID, id int64, dto ItemDTO) (*Item, error) {
	var row *itemDatamodel.Item
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		row, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		if row == nil {
			return ErrItemNotFound
		}

		row.Name = strings.TrimSpace(dto.Name)
		row.CategoryID = dto.CategoryID
		if err := s.validate(ctx, row.Name, row.CategoryID); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, row); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionUpdate, audit.EntityItem, id, row.Name)
	})
	if err != nil {
		s.logger.Warn("item update rejected", "item_id", id, "error", err)
		return nil, err
	}

	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityItem, id, audit.ActionUpdate, actingUserID))
	return FromDataModel(row), nil
}

// Delete removes an item with no ledger history and retires one that has some. An item that is
// out with someone right now cannot be deleted at all.
func (s *Service) Delete(ctx context.Context, actingUserID, id int64) (*deletion.Result, error) {
	var result *deletion.Result
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		if row == nil {
			return ErrItemNotFound
		}

		active, err := s.repo.HasActiveAssignment(ctx, id)
		if err != nil {
			return fmt.Errorf("check active assignment: %w", err)
		}
		if active {
			return ErrItemInCustody
		}

		result, err = s.policy.Apply(ctx, s.repo, id)
		if err != nil {
			return err
		}

		action := audit.ActionDelete
		if result.Outcome != deletion.OutcomeHardDeleted {
			action = audit.ActionRetire
		}
		return s.recorder.Record(ctx, actingUserID, action, audit.EntityItem, id, row.Name)
	})
	if err != nil {
		s.logger.Warn("item delete rejected", "item_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("item deleted", "item_id", id, "outcome", result.Outcome, "references", result.References)
	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityItem, id, string(result.Outcome), actingUserID))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Item, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if row == nil {
		return nil, ErrItemNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, filter ListItemsFilter) (*ListItemsResult, error) {
	filter.Limit, filter.Offset = pagination.Normalize(filter.Limit, filter.Offset)
	filter.Search = strings.TrimSpace(filter.Search)

	if filter.Status != "" {
		v := validation.NewValidator()
		v.Field("status", filter.Status).OneOf(Statuses...)
		if appErr := v.Validate(); appErr != nil {
			return nil, appErr
		}
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	items := make([]*Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromDataModel(row))
	}
	return &ListItemsResult{Items: items, Total: total}, nil
}
