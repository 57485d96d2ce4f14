package db

import (
	"context"
	"fmt"
	"strings"

	_ "embed"

	"github.com/jackc/pgx/v5"
	"github.com/taiwon1/sprint3/internal/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching keyword anywhere in a
// value. The empty keyword matches every value.
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

//go:embed queries/fetch-article.sql
var fetchArticleQuery string

func (repo Repository) FetchArticle(ctx context.Context, id int64) (article domain.Article, err error) {
	rows, err := repo.Query(ctx, fetchArticleQuery, pgx.NamedArgs{"id": id})
	if err != nil {
		err = fmt.Errorf("failed to execute query: %w", err)
		return
	}
	dto, err := collectOne[ArticleDTO](rows)
	if err != nil {
		return
	}
	article = dto.toDomain()
	return
}

//go:embed queries/list-articles.sql
var listArticlesQuery string

//go:embed queries/count-articles.sql
var countArticlesQuery string

func (repo Repository) ListArticles(ctx context.Context, params domain.ListParams) (page domain.Page[domain.Article], err error) {
	pattern := containsPattern(params.Keyword)
	err = repo.WithinTransaction(ctx, func(tx pgx.Tx) (err error) {
		rows, err := tx.Query(ctx, listArticlesQuery, pgx.NamedArgs{
			"pattern": pattern,
			"limit":   params.Limit,
			"offset":  params.Offset,
		})
		if err != nil {
			return
		}
		dtos, err := pgx.CollectRows(rows, pgx.RowToStructByName[ArticleDTO])
		if err != nil {
			return
		}
		page.Items = mapDTOs(dtos, ArticleDTO.toDomain)
		return tx.QueryRow(ctx, countArticlesQuery, pgx.NamedArgs{"pattern": pattern}).Scan(&page.Total)
	})
	if err != nil {
		err = fmt.Errorf("failed to list articles: %w", err)
	}
	return
}

//go:embed queries/insert-article.sql
var insertArticleQuery string

func (repo Repository) InsertArticle(ctx context.Context, input domain.ArticleInput) (article domain.Article, err error) {
	rows, err := repo.Query(ctx, insertArticleQuery, pgx.NamedArgs{
		"title":   input.Title,
		"content": input.Content,
	})
	if err != nil {
		err = fmt.Errorf("failed to execute query: %w", err)
		return
	}
	dto, err := collectOne[ArticleDTO](rows)
	if err != nil {
		err = fmt.Errorf("failed to insert article: %w", err)
		return
	}
	article = dto.toDomain()
	return
}

//go:embed queries/update-article.sql
var updateArticleQuery string

func (repo Repository) UpdateArticle(ctx context.Context, id int64, patch domain.ArticlePatch) (article domain.Article, err error) {
	rows, err := repo.Query(ctx, updateArticleQuery, pgx.NamedArgs{
		"id":      id,
		"title":   patch.Title,
		"content": patch.Content,
	})
	if err != nil {
		err = fmt.Errorf("failed to execute query: %w", err)
		return
	}
	dto, err := collectOne[ArticleDTO](rows)
	if err != nil {
		return
	}
	article = dto.toDomain()
	return
}

//go:embed queries/delete-article.sql
var deleteArticleQuery string

func (repo Repository) DeleteArticle(ctx context.Context, id int64) error {
	res, err := repo.Exec(ctx, deleteArticleQuery, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
