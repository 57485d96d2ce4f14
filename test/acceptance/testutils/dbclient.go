package testutils

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
)

type DBClient struct {
	conn *pgx.Conn
}

type TestDB struct {
	Name             string
	ConnectionString string
}

func NewDBClient(ctx context.Context, connString string) (client *DBClient, err error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		err = fmt.Errorf("failed to connect to database: %w", err)
		return
	}
	client = &DBClient{
		conn: conn,
	}
	return
}

const sourceDBName = "_original"

// InitializeSourceDB creates the migrated template every test database is
// copied from.
func (client DBClient) InitializeSourceDB(ctx context.Context, migrateBinaryPath string) (err error) {
	_, err = client.conn.Exec(ctx, fmt.Sprintf(`CREATE DATABASE %s`, pgx.Identifier{sourceDBName}.Sanitize()))
	if err != nil {
		err = fmt.Errorf("failed to create database: %w", err)
		return
	}
	err = MigrateToLatest(ctx, migrateBinaryPath, client.connectionString(sourceDBName))
	if err != nil {
		err = fmt.Errorf("failed to migrate database to latest schema version: %w", err)
	}
	return
}

func (client DBClient) CleanupSourceDB(ctx context.Context) (err error) {
	_, err = client.conn.Exec(ctx, fmt.Sprintf(`DROP DATABASE IF EXISTS %s`, pgx.Identifier{sourceDBName}.Sanitize()))
	if err != nil {
		err = fmt.Errorf("failed to drop source database: %w", err)
	}
	return
}

func (client DBClient) connectionString(database string) string {
	config := client.conn.Config().Copy()
	config.Database = database
	return connectionString(config.Config)
}

func (client DBClient) CreateTestDB(ctx context.Context) (testDB TestDB, err error) {
	testDB.Name = GenerateRandomUUID().String()
	testDB.ConnectionString = client.connectionString(testDB.Name)
	_, err = client.conn.Exec(ctx, fmt.Sprintf(
		`CREATE DATABASE %s WITH TEMPLATE %s`,
		pgx.Identifier{testDB.Name}.Sanitize(), pgx.Identifier{sourceDBName}.Sanitize(),
	))
	if err != nil {
		err = fmt.Errorf("failed to copy database from source: %w", err)
	}
	return
}

func (client DBClient) CleanupTestDB(ctx context.Context, testDBName string) (err error) {
	_, err = client.conn.Exec(ctx, fmt.Sprintf(`DROP DATABASE IF EXISTS %s WITH (FORCE)`, pgx.Identifier{testDBName}.Sanitize()))
	if err != nil {
		err = fmt.Errorf("failed to drop database: %w", err)
	}
	return
}

func (client DBClient) Close(ctx context.Context) error {
	return client.conn.Close(ctx)
}

// TestDBConn is a direct connection to a test database for seeding rows the
// API cannot create, such as comments sharing one timestamp.
type TestDBConn struct {
	conn *pgx.Conn
}

func ConnectTestDB(ctx context.Context, testDB TestDB) (*TestDBConn, error) {
	conn, err := pgx.Connect(ctx, testDB.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	return &TestDBConn{conn: conn}, nil
}

// Reset empties every table while the API server stays connected.
func (db TestDBConn) Reset(ctx context.Context) error {
	_, err := db.conn.Exec(ctx, `TRUNCATE articles, products RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to truncate test database: %w", err)
	}
	return nil
}

// SeedArticleComments inserts n comments on an article, all created at the
// same instant, and returns their ids in insertion order.
func (db TestDBConn) SeedArticleComments(ctx context.Context, articleID string, n int, createdAt time.Time) (ids []string, err error) {
	parentID, err := strconv.ParseInt(articleID, 10, 64)
	if err != nil {
		err = fmt.Errorf("invalid article id %q: %w", articleID, err)
		return
	}
	rows, err := db.conn.Query(ctx, `
		INSERT INTO article_comments (article_id, content, created_at)
		SELECT @article_id::bigint, 'comment ' || g, @created_at
		FROM generate_series(1, @n::int) AS g
		ORDER BY g
		RETURNING id::text`,
		pgx.NamedArgs{"article_id": parentID, "created_at": createdAt, "n": n},
	)
	if err != nil {
		err = fmt.Errorf("failed to seed comments: %w", err)
		return
	}
	ids, err = pgx.CollectRows(rows, pgx.RowTo[string])
	return
}

func (db TestDBConn) Close(ctx context.Context) error {
	return db.conn.Close(ctx)
}
