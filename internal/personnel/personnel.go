package personnel

import (
	"time"

	errors "github.com/frahmantamala/asset-custody/internal"
	personnelDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/personnel"
)

const (
	MaxNameLength           = 150
	MaxEmployeeNumberLength = 50
)

type Personnel struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	EmployeeNumber string    `json:"employee_number"`
	DepartmentID   int64     `json:"department_id"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var ErrPersonnelNotFound = errors.NewNotFoundError("Personnel not found", errors.ErrCodePersonnelNotFound)

func ToDataModel(p *Personnel) *personnelDatamodel.Personnel {
	return &personnelDatamodel.Personnel{
		ID:             p.ID,
		Name:           p.Name,
		EmployeeNumber: p.EmployeeNumber,
		DepartmentID:   p.DepartmentID,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func FromDataModel(p *personnelDatamodel.Personnel) *Personnel {
	return &Personnel{
		ID:             p.ID,
		Name:           p.Name,
		EmployeeNumber: p.EmployeeNumber,
		DepartmentID:   p.DepartmentID,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
