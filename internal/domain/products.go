package domain

import "time"

type Product struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       int64     `json:"price"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProductInput struct {
	Name        *string  `json:"name" validate:"required,min=1,max=255"`
	Description *string  `json:"description"`
	Price       *int64   `json:"price" validate:"required,gte=0"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=50"`
}

type ProductPatch struct {
	Name        *string   `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string   `json:"description"`
	Price       *int64    `json:"price" validate:"omitnil,gte=0"`
	Tags        *[]string `json:"tags" validate:"omitnil,dive,min=1,max=50"`
}

func (patch ProductPatch) empty() bool {
	return patch.Name == nil && patch.Description == nil && patch.Price == nil && patch.Tags == nil
}

type PaginatedProductsResponse struct {
	Products   []Product `json:"products"`
	TotalCount int64     `json:"totalCount"`
}
