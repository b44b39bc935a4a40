package category

type CategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoriesResponse struct {
	Categories []*Category `json:"categories"`
}
