package audit

import (
	"time"

	auditDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/audit"
)

const (
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionDelete        = "delete"
	ActionDeactivate    = "deactivate"
	ActionRetire        = "retire"
	ActionResetPassword = "reset_password"
	ActionIssue         = "issue"
	ActionClose         = "close"
)

const (
	EntityUser       = "user"
	EntityPersonnel  = "personnel"
	EntityItem       = "item"
	EntityAssignment = "assignment"
	EntityCategory   = "category"
	EntityDepartment = "department"
)

type Entry struct {
	ID          int64     `json:"id"`
	ActorUserID int64     `json:"actor_user_id"`
	Action      string    `json:"action"`
	Entity      string    `json:"entity"`
	EntityID    int64     `json:"entity_id"`
	Detail      string    `json:"detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListFilter struct {
	Entity   string
	EntityID int64
	Limit    int
	Offset   int
}

func ToDataModel(e *Entry) *auditDatamodel.Log {
	return &auditDatamodel.Log{
		ID:          e.ID,
		ActorUserID: e.ActorUserID,
		Action:      e.Action,
		Entity:      e.Entity,
		EntityID:    e.EntityID,
		Detail:      e.Detail,
		CreatedAt:   e.CreatedAt,
	}
}

func FromDataModel(l *auditDatamodel.Log) *Entry {
	return &Entry{
		ID:          l.ID,
		ActorUserID: l.ActorUserID,
		Action:      l.Action,
		Entity:      l.Entity,
		EntityID:    l.EntityID,
		Detail:      l.Detail,
		CreatedAt:   l.CreatedAt,
	}
}
