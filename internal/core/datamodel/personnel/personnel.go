package personnel

import "time"

type Personnel struct {
	ID             int64     `gorm:"primaryKey"`
	Name           string    `gorm:"column:name;size:150;not null"`
	EmployeeNumber string    `gorm:"column:employee_number;size:50;uniqueIndex;not null"`
	DepartmentID   int64     `gorm:"column:department_id;index;not null"`
	IsActive       bool      `gorm:"column:is_active;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Personnel) TableName() string {
	return "personnel"
}
