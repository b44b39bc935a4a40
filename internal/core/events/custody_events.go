package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAssignmentIssued = "assignment.issued"
	EventTypeAssignmentClosed = "assignment.closed"
	EventTypeDirectoryChanged = "directory.changed"
)

// AllTypes lists every event type the custody services emit.
var AllTypes = []string{EventTypeAssignmentIssued, EventTypeAssignmentClosed, EventTypeDirectoryChanged}

type AssignmentIssuedEvent struct {
	BaseEvent
	AssignmentID     int64  `json:"assignment_id"`
	AssignmentNumber string `json:"assignment_number"`
	ItemID           int64  `json:"item_id"`
	PersonnelID      int64  `json:"personnel_id"`
	ActorUserID      int64  `json:"actor_user_id"`
}

func NewAssignmentIssuedEvent(assignmentID int64, number string, itemID, personnelID, actorUserID int64) *AssignmentIssuedEvent {
	return &AssignmentIssuedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAssignmentIssued,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"assignment_id":     assignmentID,
				"assignment_number": number,
				"item_id":           itemID,
				"personnel_id":      personnelID,
				"actor_user_id":     actorUserID,
			},
		},
		AssignmentID:     assignmentID,
		AssignmentNumber: number,
		ItemID:           itemID,
		PersonnelID:      personnelID,
		ActorUserID:      actorUserID,
	}
}

type AssignmentClosedEvent struct {
	BaseEvent
	AssignmentID int64  `json:"assignment_id"`
	ItemID       int64  `json:"item_id"`
	Outcome      string `json:"outcome"`
	ActorUserID  int64  `json:"actor_user_id"`
}

func NewAssignmentClosedEvent(assignmentID, itemID int64, outcome string, actorUserID int64) *AssignmentClosedEvent {
	return &AssignmentClosedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAssignmentClosed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"assignment_id": assignmentID,
				"item_id":       itemID,
				"outcome":       outcome,
				"actor_user_id": actorUserID,
			},
		},
		AssignmentID: assignmentID,
		ItemID:       itemID,
		Outcome:      outcome,
		ActorUserID:  actorUserID,
	}
}

// DirectoryChangedEvent covers create/update/delete on users, personnel, items and lookups.
type DirectoryChangedEvent struct {
	BaseEvent
	Entity      string `json:"entity"`
	EntityID    int64  `json:"entity_id"`
	Action      string `json:"action"`
	ActorUserID int64  `json:"actor_user_id"`
}

func NewDirectoryChangedEvent(entity string, entityID int64, action string, actorUserID int64) *DirectoryChangedEvent {
	return &DirectoryChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDirectoryChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entity":        entity,
				"entity_id":     entityID,
				"action":        action,
				"actor_user_id": actorUserID,
			},
		},
		Entity:      entity,
		EntityID:    entityID,
		Action:      action,
		ActorUserID: actorUserID,
	}
}
