package db

import (
	"context"
	"errors"
	"fmt"

	_ "embed"

	"github.com/jackc/pgx/v5"
	"github.com/taiwon1/sprint3/internal/domain"
)

//go:embed queries/fetch-product-image.sql
var fetchProductImageQuery string

func (repo Repository) FetchProductImage(ctx context.Context, productID int64) (image domain.ProductImage, err error) {
	rows, err := repo.Query(ctx, fetchProductImageQuery, pgx.NamedArgs{"product_id": productID})
	if err != nil {
		err = fmt.Errorf("failed to execute query: %w", err)
		return
	}
	dto, err := collectOne[ProductImageDTO](rows)
	if err != nil {
		return
	}
	image = dto.toDomain()
	return
}

//go:embed queries/lock-product.sql
var lockProductQuery string

//go:embed queries/delete-product-image.sql
var deleteProductImageQuery string

//go:embed queries/insert-product-image.sql
var insertProductImageQuery string

// ReplaceProductImage records image as the product's only image and returns
// the record it replaced, if any, so the caller can discard the old blob.
func (repo Repository) ReplaceProductImage(ctx context.Context, image domain.ProductImage) (inserted domain.ProductImage, previous *domain.ProductImage, err error) {
	err = repo.WithinTransaction(ctx, func(tx pgx.Tx) (err error) {
		var locked int64
		err = tx.QueryRow(ctx, lockProductQuery, pgx.NamedArgs{"product_id": image.ProductID}).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return
		}

		rows, err := tx.Query(ctx, deleteProductImageQuery, pgx.NamedArgs{"product_id": image.ProductID})
		if err != nil {
			return
		}
		replaced, err := pgx.CollectRows(rows, pgx.RowToStructByName[ProductImageDTO])
		if err != nil {
			return
		}
		if len(replaced) > 0 {
			old := replaced[0].toDomain()
			previous = &old
		}

		rows, err = tx.Query(ctx, insertProductImageQuery, pgx.NamedArgs{
			"product_id":   image.ProductID,
			"name":         image.Name,
			"path":         image.Path,
			"size":         image.Size,
			"content_type": image.ContentType,
		})
		if err != nil {
			return
		}
		dto, err := collectOne[ProductImageDTO](rows)
		if err != nil {
			return
		}
		inserted = dto.toDomain()
		return
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		err = fmt.Errorf("failed to replace product image: %w", err)
	}
	return
}
