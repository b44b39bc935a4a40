package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/asset-custody/internal/category"
	categoryDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/category"
	itemDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/item"
	"github.com/frahmantamala/asset-custody/internal/store"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	err := store.Conn(ctx, r.db).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := store.Conn(ctx, r.db).Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&categoryDatamodel.Category{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *CategoryRepository) CountItems(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&itemDatamodel.Item{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	return store.Conn(ctx, r.db).Create(cat).Error
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	return store.Conn(ctx, r.db).Save(cat).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return store.Conn(ctx, r.db).Delete(&categoryDatamodel.Category{}, id).Error
}
