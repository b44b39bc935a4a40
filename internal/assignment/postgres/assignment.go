package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/asset-custody/internal/assignment"
	assignmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/assignment"
	itemDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/item"
	personnelDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/personnel"
	userDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/user"
	"github.com/frahmantamala/asset-custody/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) assignment.RepositoryAPI {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) LockItem(ctx context.Context, itemID int64) (*itemDatamodel.Item, error) {
	var it itemDatamodel.Item
	err := store.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&it, "id = ?", itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *AssignmentRepository) GetPersonnel(ctx context.Context, personnelID int64) (*personnelDatamodel.Personnel, error) {
	var p personnelDatamodel.Personnel
	err := store.Conn(ctx, r.db).First(&p, "id = ?", personnelID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *AssignmentRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&userDatamodel.User{}).Where("id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *AssignmentRepository) CountActiveForItem(ctx context.Context, itemID int64) (int64, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&assignmentDatamodel.Assignment{}).
		Where("item_id = ? AND status = ?", itemID, assignment.StatusActive).
		Count(&count).Error
	return count, err
}

func (r *AssignmentRepository) LatestForItem(ctx context.Context, itemID int64) (*assignmentDatamodel.Assignment, error) {
	var a assignmentDatamodel.Assignment
	err := store.Conn(ctx, r.db).
		Where("item_id = ?", itemID).
		Order("id DESC").
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) SetItemStatus(ctx context.Context, itemID int64, status string) error {
	return store.Conn(ctx, r.db).Model(&itemDatamodel.Item{}).
		Where("id = ?", itemID).
		Update("status", status).Error
}

func (r *AssignmentRepository) Create(ctx context.Context, a *assignmentDatamodel.Assignment) error {
	return store.Conn(ctx, r.db).Create(a).Error
}

func (r *AssignmentRepository) NumberTaken(ctx context.Context, number string, excludeID int64) (bool, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&assignmentDatamodel.Assignment{}).
		Where("assignment_number = ? AND id <> ?", number, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *AssignmentRepository) SetNumber(ctx context.Context, id int64, number string) error {
	return store.Conn(ctx, r.db).Model(&assignmentDatamodel.Assignment{}).
		Where("id = ?", id).
		Update("assignment_number", number).Error
}

func (r *AssignmentRepository) CloseActive(ctx context.Context, id int64, outcome string, closedBy int64, closedAt time.Time, notes string) (int64, error) {
	res := store.Conn(ctx, r.db).Model(&assignmentDatamodel.Assignment{}).
		Where("id = ? AND status = ?", id, assignment.StatusActive).
		Updates(map[string]interface{}{
			"status":              outcome,
			"returned_by_user_id": closedBy,
			"returned_date":       closedAt,
			"notes":               notes,
		})
	return res.RowsAffected, res.Error
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*assignmentDatamodel.Assignment, error) {
	var a assignmentDatamodel.Assignment
	err := store.Conn(ctx, r.db).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) List(ctx context.Context, filter assignment.ListAssignmentsFilter) ([]*assignmentDatamodel.Assignment, int64, error) {
	q := store.Conn(ctx, r.db).Model(&assignmentDatamodel.Assignment{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PersonnelID > 0 {
		q = q.Where("personnel_id = ?", filter.PersonnelID)
	}
	if filter.ItemID > 0 {
		q = q.Where("item_id = ?", filter.ItemID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("LOWER(assignment_number) LIKE LOWER(?) OR LOWER(notes) LIKE LOWER(?)", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*assignmentDatamodel.Assignment
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&rows).Error
	return rows, total, err
}
