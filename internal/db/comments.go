package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/taiwon1/sprint3/internal/domain"
	"github.com/taiwon1/sprint3/internal/paging"
)

type commentTable struct {
	name   string
	parent string
}

var commentTables = map[domain.CommentTarget]commentTable{
	domain.CommentTargetArticle: {name: "article_comments", parent: "article_id"},
	domain.CommentTargetProduct: {name: "product_comments", parent: "product_id"},
}

func commentTableFor(target domain.CommentTarget) commentTable {
	table, ok := commentTables[target]
	if !ok {
		panic(fmt.Sprintf("no comment table for %s", target))
	}
	return table
}

func (table commentTable) columns() map[string]string {
	return map[string]string{
		"id":         "id",
		"content":    "content",
		"created_at": "created_at",
		"parent_id":  table.parent,
	}
}

func (table commentTable) identifier() string {
	return pgx.Identifier{table.name}.Sanitize()
}

func (table commentTable) selectList() string {
	return fmt.Sprintf("id, content, created_at, %s AS parent_id", pgx.Identifier{table.parent}.Sanitize())
}

// CommentSource reads one comment table for paged listings.
type CommentSource struct {
	conn  DBConnection
	table commentTable
}

func (repo Repository) Comments(target domain.CommentTarget) CommentSource {
	return CommentSource{conn: repo.DBConnection, table: commentTableFor(target)}
}

func (src CommentSource) render(query paging.Query) (sql string, args pgx.NamedArgs, err error) {
	builder := newSQLBuilder(src.table.columns())
	where, err := builder.Where(query.Filter)
	if err != nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s WHERE %s", src.table.selectList(), src.table.identifier(), where)
	if len(query.Sort) > 0 {
		var orderBy string
		orderBy, err = builder.OrderBy(query.Sort)
		if err != nil {
			return
		}
		fmt.Fprintf(&sb, " ORDER BY %s", orderBy)
	}
	if query.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %s", builder.bind(query.Limit))
	}
	if query.Offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %s", builder.bind(query.Offset))
	}
	return sb.String(), builder.args, nil
}

func (src CommentSource) Find(ctx context.Context, query paging.Query) (comments []domain.Comment, err error) {
	sql, args, err := src.render(query)
	if err != nil {
		err = fmt.Errorf("failed to render comment query: %w", err)
		return
	}
	rows, err := src.conn.Query(ctx, sql, args)
	if err != nil {
		err = fmt.Errorf("failed to execute query: %w", err)
		return
	}
	dtos, err := pgx.CollectRows(rows, pgx.RowToStructByName[CommentDTO])
	if err != nil {
		err = fmt.Errorf("failed to map rows to CommentDTO: %w", err)
		return
	}
	comments = mapDTOs(dtos, CommentDTO.toDomain)
	return
}

func (repo Repository) InsertComment(ctx context.Context, target domain.CommentTarget, parentID int64, input domain.CommentInput) (comment domain.Comment, err error) {
	table := commentTableFor(target)
	sql := fmt.Sprintf(
		"INSERT INTO %s (%s, content) VALUES (@parent_id, @content) RETURNING %s",
		table.identifier(), pgx.Identifier{table.parent}.Sanitize(), table.selectList(),
	)
	rows, err := repo.Query(ctx, sql, pgx.NamedArgs{"parent_id": parentID, "content": input.Content})
	if err == nil {
		var dto CommentDTO
		dto, err = collectOne[CommentDTO](rows)
		comment = dto.toDomain()
	}
	var pgErr *pgconn.PgError
	if err != nil && errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		err = ErrNotFound
		return
	}
	if err != nil {
		err = fmt.Errorf("failed to insert comment: %w", err)
	}
	return
}

func (repo Repository) UpdateComment(ctx context.Context, target domain.CommentTarget, parentID, commentID int64, input domain.CommentInput) (comment domain.Comment, err error) {
	table := commentTableFor(target)
	sql := fmt.Sprintf(
		"UPDATE %s SET content = @content, updated_at = now() WHERE id = @id AND %s = @parent_id RETURNING %s",
		table.identifier(), pgx.Identifier{table.parent}.Sanitize(), table.selectList(),
	)
	rows, err := repo.Query(ctx, sql, pgx.NamedArgs{"id": commentID, "parent_id": parentID, "content": input.Content})
	if err != nil {
		err = fmt.Errorf("failed to execute query: %w", err)
		return
	}
	dto, err := collectOne[CommentDTO](rows)
	if err != nil {
		return
	}
	comment = dto.toDomain()
	return
}

func (repo Repository) DeleteComment(ctx context.Context, target domain.CommentTarget, parentID, commentID int64) error {
	table := commentTableFor(target)
	sql := fmt.Sprintf(
		"DELETE FROM %s WHERE id = @id AND %s = @parent_id",
		table.identifier(), pgx.Identifier{table.parent}.Sanitize(),
	)
	res, err := repo.Exec(ctx, sql, pgx.NamedArgs{"id": commentID, "parent_id": parentID})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
