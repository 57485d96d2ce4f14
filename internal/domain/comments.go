//go:generate go run github.com/abice/go-enum@v0.5.6 --marshal

package domain

import (
	"time"

	"github.com/taiwon1/sprint3/internal/paging"
)

// ENUM(article, product)
type CommentTarget int

type Comment struct {
	ID        int64     `json:"id,string"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	ParentID  int64     `json:"-"`
}

func (comment Comment) Field(name string) (paging.Value, bool) {
	switch name {
	case "id":
		return paging.Int(comment.ID), true
	case "created_at":
		return paging.Time(comment.CreatedAt), true
	case "parent_id":
		return paging.Int(comment.ParentID), true
	default:
		return paging.Value{}, false
	}
}

// CommentOrder lists comments newest first, breaking timestamp ties by id.
var CommentOrder = paging.SortSpec{
	paging.Desc("created_at", paging.FieldTypeTimestamp),
	paging.Asc("id", paging.FieldTypeInteger),
}

// CommentsOf is the base filter selecting the comments attached to a parent.
func CommentsOf(parentID int64) paging.Predicate {
	return paging.Eq("parent_id", paging.Int(parentID))
}

type CommentInput struct {
	Content *string `json:"content" validate:"required,min=1"`
}
