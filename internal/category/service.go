package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/audit"
	"github.com/frahmantamala/asset-custody/internal/core/common/validation"
	categoryDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/category"
	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/store"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	CountItems(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo      RepositoryAPI
	tx        store.Transactor
	recorder  audit.Recorder
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, tx store.Transactor, recorder audit.Recorder, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		tx:        tx,
		recorder:  recorder,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) validate(ctx context.Context, name string, excludeID int64) error {
	v := validation.NewValidator()
	v.Field("name", name).Required().MaxLength(MaxNameLength)

	if name != "" {
		taken, err := s.repo.NameTaken(ctx, name, excludeID)
		if err != nil {
			return fmt.Errorf("check category name: %w", err)
		}
		if taken {
			v.Add("name", fmt.Sprintf("category %q already exists", name), errors.ErrCodeDuplicate)
		}
	}

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actingUserID int64, dto CategoryDTO) (*Category, error) {
	c := NewCategory(strings.TrimSpace(dto.Name), strings.TrimSpace(dto.Description))
	row := ToDataModel(c)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, row.Name, 0); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, row); err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionCreate, audit.EntityCategory, row.ID, row.Name)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category created", "category_id", row.ID, "name", row.Name)
	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityCategory, row.ID, audit.ActionCreate, actingUserID))
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actingUserID, id int64, dto CategoryDTO) (*Category, error) {
	var row *categoryDatamodel.Category
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		row, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get category: %w", err)
		}
		if row == nil {
			return ErrCategoryNotFound
		}

		row.Name = strings.TrimSpace(dto.Name)
		row.Description = strings.TrimSpace(dto.Description)
		if err := s.validate(ctx, row.Name, id); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, row); err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionUpdate, audit.EntityCategory, id, row.Name)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityCategory, id, audit.ActionUpdate, actingUserID))
	return FromDataModel(row), nil
}

// Delete removes an empty category. Categories have no inactive state, so one with items is kept.
func (s *Service) Delete(ctx context.Context, actingUserID, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get category: %w", err)
		}
		if row == nil {
			return ErrCategoryNotFound
		}

		items, err := s.repo.CountItems(ctx, id)
		if err != nil {
			return fmt.Errorf("count category items: %w", err)
		}
		if items > 0 {
			return ErrCategoryInUse.WithMessage(fmt.Sprintf("Category %q still has %d items", row.Name, items))
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionDelete, audit.EntityCategory, id, row.Name)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityCategory, id, audit.ActionDelete, actingUserID))
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get category", "category_id", id, "error", err)
		return nil, err
	}
	if row == nil {
		return nil, ErrCategoryNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetAll(ctx context.Context) ([]*Category, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}

	categories := make([]*Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, FromDataModel(row))
	}

	s.logger.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// Exists is used by the item catalog to validate references.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}
