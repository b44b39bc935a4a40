package postgres

import (
	"context"
	"errors"

	assignmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/assignment"
	categoryDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/category"
	itemDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/item"
	"github.com/frahmantamala/asset-custody/internal/item"
	"github.com/frahmantamala/asset-custody/internal/store"
	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) item.RepositoryAPI {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*itemDatamodel.Item, error) {
	var i itemDatamodel.Item
	err := store.Conn(ctx, r.db).Where("id = ?", id).First(&i).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}

func (r *ItemRepository) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&categoryDatamodel.Category{}).Where("id = ?", categoryID).Count(&count).Error
	return count > 0, err
}

func (r *ItemRepository) HasActiveAssignment(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&assignmentDatamodel.Assignment{}).
		Where("item_id = ? AND status = ?", id, "active").
		Count(&count).Error
	return count > 0, err
}

func (r *ItemRepository) List(ctx context.Context, filter item.ListItemsFilter) ([]*itemDatamodel.Item, int64, error) {
	q := store.Conn(ctx, r.db).Model(&itemDatamodel.Item{})
	if filter.Search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.CategoryID > 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*itemDatamodel.Item
	err := q.Order("name ASC").Order("id ASC").Limit(filter.Limit).Offset(filter.Offset).Find(&rows).Error
	return rows, total, err
}

func (r *ItemRepository) Create(ctx context.Context, i *itemDatamodel.Item) error {
	return store.Conn(ctx, r.db).Create(i).Error
}

// Update never writes status.
func (r *ItemRepository) Update(ctx context.Context, i *itemDatamodel.Item) error {
	return store.Conn(ctx, r.db).Model(i).Select("name", "category_id", "updated_at").Updates(i).Error
}

func (r *ItemRepository) CountReferences(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := store.Conn(ctx, r.db).Model(&assignmentDatamodel.Assignment{}).Where("item_id = ?", id).Count(&count).Error
	return count, err
}

func (r *ItemRepository) HardDelete(ctx context.Context, id int64) error {
	return store.Conn(ctx, r.db).Delete(&itemDatamodel.Item{}, id).Error
}

// SoftDelete retires the item.
func (r *ItemRepository) SoftDelete(ctx context.Context, id int64) error {
	return store.Conn(ctx, r.db).Model(&itemDatamodel.Item{}).
		Where("id = ?", id).
		Update("status", item.StatusRetired).Error
}
