package category

import (
	"time"

	errors "github.com/frahmantamala/asset-custody/internal"
	categoryDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/category"
)

const MaxNameLength = 100

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrCategoryNotFound = errors.NewNotFoundError("Category not found", errors.ErrCodeCategoryNotFound)
	ErrCategoryInUse    = errors.NewConflictError("Category still has items", errors.ErrCodeInUse)
)

func NewCategory(name, description string) *Category {
	return &Category{
		Name:        name,
		Description: description,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
