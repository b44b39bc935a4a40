package postgres

import (
	"context"
	"errors"

	assignmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/assignment"
	departmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/department"
	personnelDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/personnel"
	"github.com/frahmantamala/asset-custody/internal/personnel"
	"github.com/frahmantamala/asset-custody/internal/store"
	"gorm.io/gorm"
)

type PersonnelRepository struct {
	db *gorm.DB
}

func NewPersonnelRepository(db *gorm.DB) personnel.RepositoryAPI {
	return &PersonnelRepository{db: db}
}

func (r *PersonnelRepository) GetByID(ctx context.Context, id int64) (*personnelDatamodel.Personnel, error) {
	var p personnelDatamodel.Personnel
	err := store.Conn(ctx, r.db).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PersonnelRepository) EmployeeNumberTaken(ctx context.Context, employeeNumber string, excludeID int64) (bool, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&personnelDatamodel.Personnel{}).
		Where("employee_number = ? AND id <> ?", employeeNumber, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *PersonnelRepository) DepartmentExists(ctx context.Context, departmentID int64) (bool, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&departmentDatamodel.Department{}).Where("id = ?", departmentID).Count(&count).Error
	return count > 0, err
}

func (r *PersonnelRepository) List(ctx context.Context, filter personnel.ListPersonnelFilter) ([]*personnelDatamodel.Personnel, int64, error) {
	q := store.Conn(ctx, r.db).Model(&personnelDatamodel.Personnel{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(employee_number) LIKE LOWER(?)", like, like)
	}
	if filter.DepartmentID > 0 {
		q = q.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*personnelDatamodel.Personnel
	err := q.Order("name ASC").Order("id ASC").Limit(filter.Limit).Offset(filter.Offset).Find(&rows).Error
	return rows, total, err
}

func (r *PersonnelRepository) Create(ctx context.Context, p *personnelDatamodel.Personnel) error {
	return store.Conn(ctx, r.db).Create(p).Error
}

func (r *PersonnelRepository) Update(ctx context.Context, p *personnelDatamodel.Personnel) error {
	return store.Conn(ctx, r.db).Save(p).Error
}

// CountReferences counts assignments in any status.
func (r *PersonnelRepository) CountReferences(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&assignmentDatamodel.Assignment{}).Where("personnel_id = ?", id).Count(&count).Error
	return count, err
}

func (r *PersonnelRepository) HardDelete(ctx context.Context, id int64) error {
	return store.Conn(ctx, r.db).Delete(&personnelDatamodel.Personnel{}, id).Error
}

func (r *PersonnelRepository) SoftDelete(ctx context.Context, id int64) error {
	return store.Conn(ctx, r.db).Model(&personnelDatamodel.Personnel{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
