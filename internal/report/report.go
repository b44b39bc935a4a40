package report

import "time"

// Totals are read in one statement so the four numbers come from the same snapshot.
type Totals struct {
	ActivePersonnel   int64 `json:"active_personnel" db:"active_personnel"`
	TotalItems        int64 `json:"total_items" db:"total_items"`
	ActiveAssignments int64 `json:"active_assignments" db:"active_assignments"`
	AvailableItems    int64 `json:"available_items" db:"available_items"`
}

type RecentAssignment struct {
	ID                 int64      `json:"id" db:"id"`
	AssignmentNumber   string     `json:"assignment_number" db:"assignment_number"`
	Status             string     `json:"status" db:"status"`
	AssignedDate       time.Time  `json:"assigned_date" db:"assigned_date"`
	ReturnedDate       *time.Time `json:"returned_date,omitempty" db:"returned_date"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	PersonnelID        int64      `json:"personnel_id" db:"personnel_id"`
	PersonnelName      string     `json:"personnel_name" db:"personnel_name"`
	EmployeeNumber     string     `json:"employee_number" db:"employee_number"`
	ItemID             int64      `json:"item_id" db:"item_id"`
	ItemName           string     `json:"item_name" db:"item_name"`
	AssignedByUserID   int64      `json:"assigned_by_user_id" db:"assigned_by_user_id"`
	AssignedByUsername string     `json:"assigned_by_username" db:"assigned_by_username"`
}

type CategoryDistribution struct {
	CategoryID       int64   `json:"category_id" db:"category_id"`
	CategoryName     string  `json:"category_name" db:"category_name"`
	Total            int64   `json:"total" db:"total"`
	Available        int64   `json:"available" db:"available"`
	Assigned         int64   `json:"assigned" db:"assigned"`
	UtilizationRatio float64 `json:"utilization_ratio" db:"-"`
}

type DepartmentDistribution struct {
	DepartmentID      int64   `json:"department_id" db:"department_id"`
	DepartmentName    string  `json:"department_name" db:"department_name"`
	ActivePersonnel   int64   `json:"active_personnel" db:"active_personnel"`
	ActiveAssignments int64   `json:"active_assignments" db:"active_assignments"`
	Ratio             float64 `json:"ratio" db:"-"`
}

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

// ratio divides without rounding and returns 0 for an empty denominator.
func ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
