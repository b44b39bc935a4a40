package personnel

type CreatePersonnelDTO struct {
	Name           string `json:"name"`
	EmployeeNumber string `json:"employee_number"`
	DepartmentID   int64  `json:"department_id"`
}

type UpdatePersonnelDTO struct {
	Name           string `json:"name"`
	EmployeeNumber string `json:"employee_number"`
	DepartmentID   int64  `json:"department_id"`
	IsActive       *bool  `json:"is_active,omitempty"`
}

type ListPersonnelFilter struct {
	Search       string
	DepartmentID int64
	Active       *bool
	Limit        int
	Offset       int
}

type ListPersonnelResult struct {
	Personnel []*Personnel `json:"personnel"`
	Total     int64        `json:"total"`
}
