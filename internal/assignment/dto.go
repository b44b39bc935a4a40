package assignment

type IssueAssignmentDTO struct {
	PersonnelID int64  `json:"personnel_id"`
	ItemID      int64  `json:"item_id"`
	Notes       string `json:"notes"`
}

type CloseAssignmentDTO struct {
	Outcome string `json:"outcome"`
	Notes   string `json:"notes"`
}

type ListAssignmentsFilter struct {
	Status      string
	PersonnelID int64
	ItemID      int64
	// Search matches the assignment number or notes.
	Search string
	Limit  int
	Offset int
}

type ListAssignmentsResult struct {
	Assignments []*Assignment `json:"assignments"`
	Total       int64         `json:"total"`
}
