package personnel

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/audit"
	"github.com/frahmantamala/asset-custody/internal/core/common/pagination"
	"github.com/frahmantamala/asset-custody/internal/core/common/validation"
	personnelDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/personnel"
	"github.com/frahmantamala/asset-custody/internal/core/deletion"
	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/store"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	deletion.Target
	GetByID(ctx context.Context, id int64) (*personnelDatamodel.Personnel, error)
	EmployeeNumberTaken(ctx context.Context, employeeNumber string, excludeID int64) (bool, error)
	DepartmentExists(ctx context.Context, departmentID int64) (bool, error)
	List(ctx context.Context, filter ListPersonnelFilter) ([]*personnelDatamodel.Personnel, int64, error)
	Create(ctx context.Context, p *personnelDatamodel.Personnel) error
	Update(ctx context.Context, p *personnelDatamodel.Personnel) error
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
		policy:    deletion.NewPolicy(deletion.OutcomeDeactivated),
		logger:    logger,
	}
}

func (s *Service) validate(ctx context.Context, row *personnelDatamodel.Personnel) error {
	v := validation.NewValidator()
	v.Field("name", row.Name).Required().MaxLength(MaxNameLength)
	v.Field("employee_number", row.EmployeeNumber).Required().MaxLength(MaxEmployeeNumberLength)
	v.Field("department_id", row.DepartmentID).Positive()

	if row.EmployeeNumber != "" {
		taken, err := s.repo.EmployeeNumberTaken(ctx, row.EmployeeNumber, row.ID)
		if err != nil {
			return fmt.Errorf("check employee number: %w", err)
		}
		if taken {
			v.Add("employee_number", fmt.Sprintf("employee number %q is already in use", row.EmployeeNumber), errors.ErrCodeDuplicate)
		}
	}
	if row.DepartmentID > 0 {
		exists, err := s.repo.DepartmentExists(ctx, row.DepartmentID)
		if err != nil {
			return fmt.Errorf("check department: %w", err)
		}
		if !exists {
			v.Add("department_id", fmt.Sprintf("department %d does not exist", row.DepartmentID), errors.ErrCodeInvalidReference)
		}
	}

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actingUserID int64, dto CreatePersonnelDTO) (*Personnel, error) {
	row := &personnelDatamodel.Personnel{
		Name:           strings.TrimSpace(dto.Name),
		EmployeeNumber: strings.TrimSpace(dto.EmployeeNumber),
		DepartmentID:   dto.DepartmentID,
		IsActive:       true,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, row); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, row); err != nil {
			if stdErrors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.NewValidationFieldError("employee_number", "employee number is already in use", errors.ErrCodeDuplicate).WithCause(err)
			}
			return fmt.Errorf("create personnel: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionCreate, audit.EntityPersonnel, row.ID, row.EmployeeNumber)
	})
	if err != nil {
		s.logger.Warn("personnel create rejected", "employee_number", row.EmployeeNumber, "error", err)
		return nil, err
	}

	s.logger.Info("personnel created", "personnel_id", row.ID, "employee_number", row.EmployeeNumber)
	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityPersonnel, row.ID, audit.ActionCreate, actingUserID))
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actingUserID, id int64, dto UpdatePersonnelDTO) (*Personnel, error) {
	var row *personnelDatamodel.Personnel
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		row, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get personnel: %w", err)
		}
		if row == nil {
			return ErrPersonnelNotFound
		}

		row.Name = strings.TrimSpace(dto.Name)
		row.EmployeeNumber = strings.TrimSpace(dto.EmployeeNumber)
		row.DepartmentID = dto.DepartmentID
		if dto.IsActive != nil {
			row.IsActive = *dto.IsActive
		}

		if err := s.validate(ctx, row); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, row); err != nil {
			if stdErrors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.NewValidationFieldError("employee_number", "employee number is already in use", errors.ErrCodeDuplicate).WithCause(err)
			}
			return fmt.Errorf("update personnel: %w", err)
		}
		return s.recorder.Record(ctx, actingUserID, audit.ActionUpdate, audit.EntityPersonnel, id, row.EmployeeNumber)
	})
	if err != nil {
		s.logger.Warn("personnel update rejected", "personnel_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("personnel updated", "personnel_id", id)
	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityPersonnel, id, audit.ActionUpdate, actingUserID))
	return FromDataModel(row), nil
}

// Delete removes the record, or deactivates it when any assignment, open or closed, names it.
func (s *Service) Delete(ctx context.Context, actingUserID, id int64) (*deletion.Result, error) {
	var result *deletion.Result
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get personnel: %w", err)
		}
		if row == nil {
			return ErrPersonnelNotFound
		}

		result, err = s.policy.Apply(ctx, s.repo, id)
		if err != nil {
			return err
		}

		action := audit.ActionDelete
		if result.Outcome != deletion.OutcomeHardDeleted {
			action = audit.ActionDeactivate
		}
		return s.recorder.Record(ctx, actingUserID, action, audit.EntityPersonnel, id, row.EmployeeNumber)
	})
	if err != nil {
		s.logger.Warn("personnel delete rejected", "personnel_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("personnel deleted", "personnel_id", id, "outcome", result.Outcome, "references", result.References)
	s.publisher.Publish(ctx, events.NewDirectoryChangedEvent(audit.EntityPersonnel, id, string(result.Outcome), actingUserID))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Personnel, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get personnel: %w", err)
	}
	if row == nil {
		return nil, ErrPersonnelNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, filter ListPersonnelFilter) (*ListPersonnelResult, error) {
	filter.Limit, filter.Offset = pagination.Normalize(filter.Limit, filter.Offset)
	filter.Search = strings.TrimSpace(filter.Search)

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list personnel: %w", err)
	}

	out := make([]*Personnel, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return &ListPersonnelResult{Personnel: out, Total: total}, nil
}
