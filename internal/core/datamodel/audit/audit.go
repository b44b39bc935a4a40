package audit

import "time"

type Log struct {
	ID          int64     `gorm:"primaryKey"`
	ActorUserID int64     `gorm:"column:actor_user_id;index;not null"`
	Action      string    `gorm:"column:action;size:50;not null"`
	Entity      string    `gorm:"column:entity;size:50;not null"`
	EntityID    int64     `gorm:"column:entity_id;not null"`
	Detail      string    `gorm:"column:detail"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Log) TableName() string {
	return "audit_logs"
}
