package department

type DepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type DepartmentsResponse struct {
	Departments []*Department `json:"departments"`
}
