package db

import (
	"time"

	"github.com/taiwon1/sprint3/internal/domain"
)

type ArticleDTO struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

func (dto ArticleDTO) toDomain() domain.Article {
	return domain.Article{
		ID:        dto.ID,
		Title:     dto.Title,
		Content:   dto.Content,
		CreatedAt: dto.CreatedAt,
	}
}

type ProductDTO struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Price       int64     `db:"price"`
	Tags        []string  `db:"tags"`
	CreatedAt   time.Time `db:"created_at"`
}

func (dto ProductDTO) toDomain() domain.Product {
	tags := dto.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.Product{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Tags:        tags,
		CreatedAt:   dto.CreatedAt,
	}
}

type CommentDTO struct {
	ID        int64     `db:"id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	ParentID  int64     `db:"parent_id"`
}

func (dto CommentDTO) toDomain() domain.Comment {
	return domain.Comment{
		ID:        dto.ID,
		Content:   dto.Content,
		CreatedAt: dto.CreatedAt,
		ParentID:  dto.ParentID,
	}
}

type ProductImageDTO struct {
	ID          int64     `db:"id"`
	ProductID   int64     `db:"product_id"`
	Name        string    `db:"name"`
	Path        string    `db:"path"`
	Size        int64     `db:"size"`
	ContentType string    `db:"content_type"`
	CreatedAt   time.Time `db:"created_at"`
}

func (dto ProductImageDTO) toDomain() domain.ProductImage {
	return domain.ProductImage{
		ID:          dto.ID,
		ProductID:   dto.ProductID,
		Name:        dto.Name,
		Path:        dto.Path,
		Size:        dto.Size,
		ContentType: dto.ContentType,
		CreatedAt:   dto.CreatedAt,
	}
}

func mapDTOs[DTO, T any](dtos []DTO, convert func(DTO) T) []T {
	items := make([]T, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, convert(dto))
	}
	return items
}
