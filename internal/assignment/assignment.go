package assignment

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/asset-custody/internal"
	assignmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/assignment"
)

const (
	StatusActive   = "active"
	StatusReturned = "returned"
	StatusLost     = "lost"
	StatusDamaged  = "damaged"
)

// Outcomes are the terminal states an active assignment can close into.
var Outcomes = []string{StatusReturned, StatusLost, StatusDamaged}

var Statuses = []string{StatusActive, StatusReturned, StatusLost, StatusDamaged}

const (
	MaxNotesLength = 500
	numberPrefix   = "ASG"
	pendingPrefix  = "PENDING-"
)

type Assignment struct {
	ID               int64      `json:"id"`
	AssignmentNumber string     `json:"assignment_number"`
	PersonnelID      int64      `json:"personnel_id"`
	ItemID           int64      `json:"item_id"`
	AssignedByUserID int64      `json:"assigned_by_user_id"`
	AssignedDate     time.Time  `json:"assigned_date"`
	Status           string     `json:"status"`
	ReturnedByUserID *int64     `json:"returned_by_user_id,omitempty"`
	ReturnedDate     *time.Time `json:"returned_date,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// FormatNumber renders the human-readable number for a row, e.g. ASG-20260114-000042.
func FormatNumber(assignedAt time.Time, id int64) string {
	return fmt.Sprintf("%s-%s-%06d", numberPrefix, assignedAt.Format("20060102"), id)
}

var (
	ErrAssignmentNotFound = errors.NewNotFoundError("Assignment not found", errors.ErrCodeAssignmentNotFound)
	ErrAlreadyClosed      = errors.NewInvalidStateError("Assignment is already closed", errors.ErrCodeAssignmentClosed)
	ErrItemAlreadyIssued  = errors.NewConflictError("Item already has an active assignment", errors.ErrCodeItemAlreadyIssued)
	ErrItemUnavailable    = errors.NewConflictError("Item is not available for issue", errors.ErrCodeItemUnavailable)
	ErrPersonnelInactive  = errors.NewConflictError("Personnel is inactive", errors.ErrCodePersonnelInactive)
)

func FromDataModel(a *assignmentDatamodel.Assignment) *Assignment {
	return &Assignment{
		ID:               a.ID,
		AssignmentNumber: a.AssignmentNumber,
		PersonnelID:      a.PersonnelID,
		ItemID:           a.ItemID,
		AssignedByUserID: a.AssignedByUserID,
		AssignedDate:     a.AssignedDate,
		Status:           a.Status,
		ReturnedByUserID: a.ReturnedByUserID,
		ReturnedDate:     a.ReturnedDate,
		Notes:            a.Notes,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
