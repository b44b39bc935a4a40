package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/asset-custody/internal/department"
	departmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/department"
	personnelDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/personnel"
	"github.com/frahmantamala/asset-custody/internal/store"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error) {
	var departments []*departmentDatamodel.Department
	err := store.Conn(ctx, r.db).Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error) {
	var cat departmentDatamodel.Department
	err := store.Conn(ctx, r.db).Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *DepartmentRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&departmentDatamodel.Department{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *DepartmentRepository) CountPersonnel(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&personnelDatamodel.Personnel{}).Where("department_id = ?", id).Count(&count).Error
	return count, err
}

func (r *DepartmentRepository) Create(ctx context.Context, cat *departmentDatamodel.Department) error {
	return store.Conn(ctx, r.db).Create(cat).Error
}

func (r *DepartmentRepository) Update(ctx context.Context, cat *departmentDatamodel.Department) error {
	return store.Conn(ctx, r.db).Save(cat).Error
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	return store.Conn(ctx, r.db).Delete(&departmentDatamodel.Department{}, id).Error
}
