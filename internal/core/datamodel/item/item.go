package item

import "time"

type Item struct {
	ID         int64     `gorm:"primaryKey"`
	Name       string    `gorm:"column:name;size:150;not null"`
	CategoryID int64     `gorm:"column:category_id;index;not null"`
	Status     string    `gorm:"column:status;size:20;index;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Item) TableName() string {
	return "items"
}
