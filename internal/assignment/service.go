package assignment

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/audit"
	"github.com/frahmantamala/asset-custody/internal/core/common/pagination"
	"github.com/frahmantamala/asset-custody/internal/core/common/validation"
	assignmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/assignment"
	itemDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/item"
	personnelDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/personnel"
	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/item"
	"github.com/frahmantamala/asset-custody/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	// LockItem reads the item row FOR UPDATE; nil when it does not exist.
	LockItem(ctx context.Context, itemID int64) (*itemDatamodel.Item, error)
	GetPersonnel(ctx context.Context, personnelID int64) (*personnelDatamodel.Personnel, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	CountActiveForItem(ctx context.Context, itemID int64) (int64, error)
	LatestForItem(ctx context.Context, itemID int64) (*assignmentDatamodel.Assignment, error)
	SetItemStatus(ctx context.Context, itemID int64, status string) error

	Create(ctx context.Context, a *assignmentDatamodel.Assignment) error
	NumberTaken(ctx context.Context, number string, excludeID int64) (bool, error)
	SetNumber(ctx context.Context, id int64, number string) error
	// CloseActive applies the transition only while the row is still active and reports rows changed.
	CloseActive(ctx context.Context, id int64, outcome string, closedBy int64, closedAt time.Time, notes string) (int64, error)
	GetByID(ctx context.Context, id int64) (*assignmentDatamodel.Assignment, error)
	List(ctx context.Context, filter ListAssignmentsFilter) ([]*assignmentDatamodel.Assignment, int64, error)
}

type Service struct {
	repo      RepositoryAPI
	tx        store.Transactor
	recorder  audit.Recorder
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, tx store.Transactor, recorder audit.Recorder, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		tx:        tx,
		recorder:  recorder,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Issue hands an available item to active personnel. Everything from the item lock to the audit
// entry happens in one transaction.
func (s *Service) Issue(ctx context.Context, actingUserID int64, dto IssueAssignmentDTO) (*Assignment, error) {
	notes := strings.TrimSpace(dto.Notes)

	var created *assignmentDatamodel.Assignment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		v := validation.NewValidator()
		v.Field("personnel_id", dto.PersonnelID).Positive()
		v.Field("item_id", dto.ItemID).Positive()
		v.Field("notes", notes).MaxLength(MaxNotesLength)

		if err := s.checkActingUser(ctx, v, actingUserID); err != nil {
			return err
		}

		var holder *personnelDatamodel.Personnel
		if dto.PersonnelID > 0 {
			var err error
			holder, err = s.repo.GetPersonnel(ctx, dto.PersonnelID)
			if err != nil {
				return fmt.Errorf("get personnel: %w", err)
			}
			if holder == nil {
				v.Add("personnel_id", fmt.Sprintf("personnel %d does not exist", dto.PersonnelID), errors.ErrCodeInvalidReference)
			}
		}

		var target *itemDatamodel.Item
		if dto.ItemID > 0 {
			var err error
			target, err = s.repo.LockItem(ctx, dto.ItemID)
			if err != nil {
				return fmt.Errorf("lock item: %w", err)
			}
			if target == nil {
				v.Add("item_id", fmt.Sprintf("item %d does not exist", dto.ItemID), errors.ErrCodeInvalidReference)
			}
		}

		if appErr := v.Validate(); appErr != nil {
			return appErr
		}

		if !holder.IsActive {
			return ErrPersonnelInactive.WithMessage(fmt.Sprintf("Personnel %s is inactive", holder.EmployeeNumber))
		}

		active, err := s.repo.CountActiveForItem(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("count active assignments: %w", err)
		}
		if active > 0 {
			return ErrItemAlreadyIssued
		}
		if target.Status != item.StatusAvailable {
			return ErrItemUnavailable.WithMessage(fmt.Sprintf("Item is %s and cannot be issued", target.Status))
		}

		now := s.now()
		row := &assignmentDatamodel.Assignment{
			AssignmentNumber: pendingPrefix + uuid.NewString(),
			PersonnelID:      holder.ID,
			ItemID:           target.ID,
			AssignedByUserID: actingUserID,
			AssignedDate:     now,
			Status:           StatusActive,
			Notes:            notes,
		}
		if err := s.repo.Create(ctx, row); err != nil {
			if stdErrors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrItemAlreadyIssued.WithCause(err)
			}
			return fmt.Errorf("create assignment: %w", err)
		}

		number, err := s.assignNumber(ctx, row)
		if err != nil {
			return err
		}
		row.AssignmentNumber = number

		if err := s.recomputeItemStatus(ctx, target.ID); err != nil {
			return err
		}
		created = row
		return s.recorder.Record(ctx, actingUserID, audit.ActionIssue, audit.EntityAssignment, row.ID,
			fmt.Sprintf("%s item=%d personnel=%d", number, row.ItemID, row.PersonnelID))
	})
	if stdErrors.Is(err, store.ErrSerializationFailure) {
		// lost the item lock race to another issue
		err = ErrItemAlreadyIssued.WithCause(err)
	}
	if err != nil {
		s.logger.Warn("assignment issue rejected",
			"item_id", dto.ItemID,
			"personnel_id", dto.PersonnelID,
			"actor", actingUserID,
			"error", err)
		return nil, err
	}

	s.logger.Info("assignment issued",
		"assignment_id", created.ID,
		"assignment_number", created.AssignmentNumber,
		"item_id", created.ItemID,
		"personnel_id", created.PersonnelID,
		"actor", actingUserID)
	s.publisher.Publish(ctx, events.NewAssignmentIssuedEvent(created.ID, created.AssignmentNumber, created.ItemID, created.PersonnelID, actingUserID))
	return FromDataModel(created), nil
}

// Close moves an active assignment to its terminal outcome. A closed assignment is never touched again.
func (s *Service) Close(ctx context.Context, actingUserID, id int64, dto CloseAssignmentDTO) (*Assignment, error) {
	outcome := strings.ToLower(strings.TrimSpace(dto.Outcome))
	notes := strings.TrimSpace(dto.Notes)

	var closed *assignmentDatamodel.Assignment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		v := validation.NewValidator()
		v.Field("outcome", outcome).OneOf(Outcomes...)
		v.Field("notes", notes).MaxLength(MaxNotesLength)
		if err := s.checkActingUser(ctx, v, actingUserID); err != nil {
			return err
		}
		if appErr := v.Validate(); appErr != nil {
			return appErr
		}

		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get assignment: %w", err)
		}
		if row == nil {
			return ErrAssignmentNotFound
		}
		if row.Status != StatusActive {
			return ErrAlreadyClosed.WithMessage(fmt.Sprintf("Assignment %s is already %s", row.AssignmentNumber, row.Status))
		}

		merged := row.Notes
		if notes != "" {
			if merged != "" {
				merged += "\n"
			}
			merged += notes
		}
		// the stored notes column holds issue and close notes together
		mv := validation.NewValidator()
		mv.Field("notes", merged).MaxLength(MaxNotesLength)
		if appErr := mv.Validate(); appErr != nil {
			return appErr
		}

		now := s.now()
		n, err := s.repo.CloseActive(ctx, id, outcome, actingUserID, now, merged)
		if err != nil {
			return fmt.Errorf("close assignment: %w", err)
		}
		if n != 1 {
			// closed by someone else between the read and the write
			return ErrAlreadyClosed
		}

		if err := s.recomputeItemStatus(ctx, row.ItemID); err != nil {
			return err
		}

		row.Status = outcome
		row.ReturnedByUserID = &actingUserID
		row.ReturnedDate = &now
		row.Notes = merged
		closed = row
		return s.recorder.Record(ctx, actingUserID, audit.ActionClose, audit.EntityAssignment, id,
			fmt.Sprintf("%s outcome=%s", row.AssignmentNumber, outcome))
	})
	if err != nil {
		s.logger.Warn("assignment close rejected", "assignment_id", id, "outcome", outcome, "actor", actingUserID, "error", err)
		return nil, err
	}

	s.logger.Info("assignment closed",
		"assignment_id", closed.ID,
		"assignment_number", closed.AssignmentNumber,
		"outcome", outcome,
		"actor", actingUserID)
	s.publisher.Publish(ctx, events.NewAssignmentClosedEvent(closed.ID, closed.ItemID, outcome, actingUserID))
	return FromDataModel(closed), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Assignment, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if row == nil {
		return nil, ErrAssignmentNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, filter ListAssignmentsFilter) (*ListAssignmentsResult, error) {
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
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	out := make([]*Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return &ListAssignmentsResult{Assignments: out, Total: total}, nil
}

func (s *Service) checkActingUser(ctx context.Context, v *validation.ValidationBuilder, actingUserID int64) error {
	if actingUserID <= 0 {
		v.Add("acting_user_id", "acting user is required", errors.ErrCodeRequired)
		return nil
	}
	exists, err := s.repo.UserExists(ctx, actingUserID)
	if err != nil {
		return fmt.Errorf("check acting user: %w", err)
	}
	if !exists {
		v.Add("acting_user_id", fmt.Sprintf("user %d does not exist", actingUserID), errors.ErrCodeInvalidReference)
	}
	return nil
}

// assignNumber replaces the provisional number with one derived from the row id. The id is
// unique, so a clash only happens if a number was written by hand; a random suffix settles it.
func (s *Service) assignNumber(ctx context.Context, row *assignmentDatamodel.Assignment) (string, error) {
	number := FormatNumber(row.AssignedDate, row.ID)

	taken, err := s.repo.NumberTaken(ctx, number, row.ID)
	if err != nil {
		return "", fmt.Errorf("check assignment number: %w", err)
	}
	if taken {
		number = number + "-" + strings.ToUpper(uuid.NewString()[:4])
	}

	if err := s.repo.SetNumber(ctx, row.ID, number); err != nil {
		return "", fmt.Errorf("set assignment number: %w", err)
	}
	return number, nil
}

// recomputeItemStatus is the only place the ledger writes item status. An open assignment means
// assigned; otherwise the latest lost or damaged outcome sticks, retired stays retired, and
// anything else is available.
func (s *Service) recomputeItemStatus(ctx context.Context, itemID int64) error {
	row, err := s.repo.LockItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("lock item: %w", err)
	}
	if row == nil {
		return item.ErrItemNotFound
	}

	active, err := s.repo.CountActiveForItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("count active assignments: %w", err)
	}

	status := item.StatusAvailable
	switch {
	case active > 0:
		status = item.StatusAssigned
	case row.Status == item.StatusRetired:
		status = item.StatusRetired
	default:
		latest, err := s.repo.LatestForItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("latest assignment: %w", err)
		}
		if latest != nil && (latest.Status == StatusLost || latest.Status == StatusDamaged) {
			status = latest.Status
		}
	}

	if status == row.Status {
		return nil
	}
	if err := s.repo.SetItemStatus(ctx, itemID, status); err != nil {
		return fmt.Errorf("set item status: %w", err)
	}
	s.logger.Debug("item status recomputed", "item_id", itemID, "from", row.Status, "to", status)
	return nil
}
