package domain

import "time"

type Article struct {
	ID        int64     `json:"id,string"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ArticleInput struct {
	Title   *string `json:"title" validate:"required,min=1,max=255"`
	Content *string `json:"content" validate:"required,min=1"`
}

type ArticlePatch struct {
	Title   *string `json:"title" validate:"omitnil,min=1,max=255"`
	Content *string `json:"content" validate:"omitnil,min=1"`
}

func (patch ArticlePatch) empty() bool {
	return patch.Title == nil && patch.Content == nil
}

type PaginatedArticlesResponse struct {
	Articles   []Article `json:"articles"`
	TotalCount int64     `json:"totalCount"`
}
