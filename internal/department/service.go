package department

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/audit"
	"github.com/frahmantamala/asset-custody/internal/core/common/validation"
	departmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/department"
	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/store"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error)
	GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	CountPersonnel(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, department *departmentDatamodel.Department) error
	Update(ctx context.Context, department *departmentDatamodel.Department) error
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
			return fmt.Errorf("check department name: %w", err)
		}
		if taken {
			v.Add("name", fmt.Sprintf("department %q already exists", name), errors.ErrCodeDuplicate)
		}
	}

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actingUserID int64, dto DepartmentDTO) (*Department, error) {
	c := NewDepartment(strings.TrimSpace(dto.Name), strings.TrimSpace(dto.Description))
	row := ToDataModel(c)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, row.Name, 0); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, row); err != nil {
			return fmt.Errorf("create department: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionCreate, audit.EntityDepartment, row.ID, row.Name)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("department created", "department_id", row.ID, "name", row.Name)
	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityDepartment, row.ID, audit.ActionCreate, actingUserID))
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actingUserID, id int64, dto DepartmentDTO) (*Department, error) {
	var row *departmentDatamodel.Department
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		row, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get department: %w", err)
		}
		if row == nil {
			return ErrDepartmentNotFound
		}

		row.Name = strings.TrimSpace(dto.Name)
		row.Description = strings.TrimSpace(dto.Description)
		if err := s.validate(ctx, row.Name, id); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, row); err != nil {
			return fmt.Errorf("update department: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionUpdate, audit.EntityDepartment, id, row.Name)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityDepartment, id, audit.ActionUpdate, actingUserID))
	return FromDataModel(row), nil
}

// Delete removes a department nobody belongs to, active or not.
func (s *Service) Delete(ctx context.Context, actingUserID, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get department: %w", err)
		}
		if row == nil {
			return ErrDepartmentNotFound
		}

		members, err := s.repo.CountPersonnel(ctx, id)
		if err != nil {
			return fmt.Errorf("count department personnel: %w", err)
		}
		if members > 0 {
			return ErrDepartmentInUse.WithMessage(fmt.Sprintf("Department %q still has %d personnel", row.Name, members))
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete department: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionDelete, audit.EntityDepartment, id, row.Name)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityDepartment, id, audit.ActionDelete, actingUserID))
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Department, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get department", "department_id", id, "error", err)
		return nil, err
	}
	if row == nil {
		return nil, ErrDepartmentNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetAll(ctx context.Context) ([]*Department, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get departments from repository", "error", err)
		return nil, err
	}

	departments := make([]*Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, FromDataModel(row))
	}

	s.logger.Debug("retrieved departments", "count", len(departments))
	return departments, nil
}

// Exists is used by the personnel directory to validate references.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}
