package assignment

import "time"

type Assignment struct {
	ID               int64      `gorm:"primaryKey"`
	AssignmentNumber string     `gorm:"column:assignment_number;size:64;uniqueIndex;not null"`
	PersonnelID      int64      `gorm:"column:personnel_id;index;not null"`
	ItemID           int64      `gorm:"column:item_id;index;not null"`
	AssignedByUserID int64      `gorm:"column:assigned_by_user_id;index;not null"`
	AssignedDate     time.Time  `gorm:"column:assigned_date;not null"`
	Status           string     `gorm:"column:status;size:20;index;not null"`
	ReturnedByUserID *int64     `gorm:"column:returned_by_user_id;index"`
	ReturnedDate     *time.Time `gorm:"column:returned_date"`
	Notes            string     `gorm:"column:notes;size:500"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Assignment) TableName() string {
	return "assignments"
}
