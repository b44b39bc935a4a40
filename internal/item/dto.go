package item

// ItemDTO is used for both create and update; status is never accepted from callers.
type ItemDTO struct {
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
}

type ListItemsFilter struct {
	Search     string
	CategoryID int64
	Status     string
	Limit      int
	Offset     int
}

type ListItemsResult struct {
	Items []*Item `json:"items"`
	Total int64   `json:"total"`
}
