package db

import (
	"context"
	"fmt"

	_ "embed"

	"github.com/jackc/pgx/v5"
	"github.com/taiwon1/sprint3/internal/domain"
)

//go:embed queries/fetch-product.sql
var fetchProductQuery string

func (repo Repository) FetchProduct(ctx context.Context, id int64) (product domain.Product, err error) {
	rows, err := repo.Query(ctx, fetchProductQuery, pgx.NamedArgs{"id": id})
	if err != nil {
		err = fmt.Errorf("failed to execute query: %w", err)
		return
	}
	dto, err := collectOne[ProductDTO](rows)
	if err != nil {
		return
	}
	product = dto.toDomain()
	return
}

//go:embed queries/list-products.sql
var listProductsQuery string

//go:embed queries/count-products.sql
var countProductsQuery string

func (repo Repository) ListProducts(ctx context.Context, params domain.ListParams) (page domain.Page[domain.Product], err error) {
	pattern := containsPattern(params.Keyword)
	err = repo.WithinTransaction(ctx, func(tx pgx.Tx) (err error) {
		rows, err := tx.Query(ctx, listProductsQuery, pgx.NamedArgs{
			"pattern": pattern,
			"limit":   params.Limit,
			"offset":  params.Offset,
		})
		if err != nil {
			return
		}
		dtos, err := pgx.CollectRows(rows, pgx.RowToStructByName[ProductDTO])
		if err != nil {
			return
		}
		page.Items = mapDTOs(dtos, ProductDTO.toDomain)
		return tx.QueryRow(ctx, countProductsQuery, pgx.NamedArgs{"pattern": pattern}).Scan(&page.Total)
	})
	if err != nil {
		err = fmt.Errorf("failed to list products: %w", err)
	}
	return
}

//go:embed queries/insert-product.sql
var insertProductQuery string

func (repo Repository) InsertProduct(ctx context.Context, input domain.ProductInput) (product domain.Product, err error) {
	rows, err := repo.Query(ctx, insertProductQuery, pgx.NamedArgs{
		"name":        input.Name,
		"description": input.Description,
		"price":       input.Price,
		"tags":        input.Tags,
	})
	if err != nil {
		err = fmt.Errorf("failed to execute query: %w", err)
		return
	}
	dto, err := collectOne[ProductDTO](rows)
	if err != nil {
		err = fmt.Errorf("failed to insert product: %w", err)
		return
	}
	product = dto.toDomain()
	return
}

//go:embed queries/update-product.sql
var updateProductQuery string

func (repo Repository) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (product domain.Product, err error) {
	rows, err := repo.Query(ctx, updateProductQuery, pgx.NamedArgs{
		"id":          id,
		"name":        patch.Name,
		"description": patch.Description,
		"price":       patch.Price,
		"tags":        patch.Tags,
	})
	if err != nil {
		err = fmt.Errorf("failed to execute query: %w", err)
		return
	}
	dto, err := collectOne[ProductDTO](rows)
	if err != nil {
		return
	}
	product = dto.toDomain()
	return
}

//go:embed queries/delete-product.sql
var deleteProductQuery string

func (repo Repository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := repo.Exec(ctx, deleteProductQuery, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
