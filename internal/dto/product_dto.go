package dto

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3"`
	Description *string `json:"description" validate:"omitempty,min=10"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	Category    *string `json:"category"`
	Size        *string `json:"size"`
	Color       *string `json:"color"`
	Stock       *int    `json:"stock" validate:"omitempty,min=0"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=3"`
	Description *string  `json:"description" validate:"omitempty,min=10"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,url"`
	Category    *string  `json:"category"`
	Size        *string  `json:"size"`
	Color       *string  `json:"color"`
	Stock       *int     `json:"stock" validate:"omitempty,min=0"`
}

type CategorySummary struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Stock    int64  `json:"stock"`
}

type ProductSummaryResponse struct {
	TotalProducts int64             `json:"totalProducts"`
	TotalStock    int64             `json:"totalStock"`
	Categories    []CategorySummary `json:"categories"`
}
