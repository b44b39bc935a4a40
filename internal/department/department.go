package department

import (
	"time"

	errors "github.com/frahmantamala/asset-custody/internal"
	departmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/department"
)

const MaxNameLength = 100

type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrDepartmentNotFound = errors.NewNotFoundError("Department not found", errors.ErrCodeDepartmentNotFound)
	ErrDepartmentInUse    = errors.NewConflictError("Department still has personnel", errors.ErrCodeInUse)
)

func NewDepartment(name, description string) *Department {
	return &Department{
		Name:        name,
		Description: description,
	}
}

func ToDataModel(c *Department) *departmentDatamodel.Department {
	return &departmentDatamodel.Department{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *departmentDatamodel.Department) *Department {
	return &Department{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
