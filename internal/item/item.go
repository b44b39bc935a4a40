package item

import (
	"time"

	errors "github.com/frahmantamala/asset-custody/internal"
	itemDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/item"
)

// Item status is written by the assignment ledger; the catalog only sets it on create and retire.
const (
	StatusAvailable = "available"
	StatusAssigned  = "assigned"
	StatusLost      = "lost"
	StatusDamaged   = "damaged"
	StatusRetired   = "retired"
)

var Statuses = []string{StatusAvailable, StatusAssigned, StatusLost, StatusDamaged, StatusRetired}

const MaxNameLength = 150

type Item struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CategoryID int64     `json:"category_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (i *Item) IsIssuable() bool {
	return i.Status == StatusAvailable
}

var (
	ErrItemNotFound  = errors.NewNotFoundError("Item not found", errors.ErrCodeItemNotFound)
	ErrItemInCustody = errors.NewConflictError("Item is currently issued and cannot be deleted", errors.ErrCodeItemInCustody)
)

func ToDataModel(i *Item) *itemDatamodel.Item {
	return &itemDatamodel.Item{
		ID:         i.ID,
		Name:       i.Name,
		CategoryID: i.CategoryID,
		Status:     i.Status,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

func FromDataModel(i *itemDatamodel.Item) *Item {
	return &Item{
		ID:         i.ID,
		Name:       i.Name,
		CategoryID: i.CategoryID,
		Status:     i.Status,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}
