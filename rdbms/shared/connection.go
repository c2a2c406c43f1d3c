package shared

import (
	"context"
	"database/sql"
)

// Connection is a wrapper around Go native sql.DB that implements interface Connector.
type Connection struct {
	DbSql  *sql.DB
	DbType string
}

// Connector:

func (c *Connection) Begin() (Transacter, error) {
	tx, err := c.DbSql.Begin()
	return &Tx{txSql: tx}, err
}

func (c *Connection) Exec(query string, args ...interface{}) (Result, error) {
	return c.ExecContext(context.Background(), query, args...)
}

func (c *Connection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return c.DbSql.ExecContext(ctx, query, args...)
}

func (c *Connection) Query(query string, args ...interface{}) (Rows, error) {
	return c.QueryContext(context.Background(), query, args...)
}

func (c *Connection) QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	return c.DbSql.QueryContext(ctx, query, args...)
}

func (c *Connection) Close() {
	_ = c.DbSql.Close()
}

func (c *Connection) GetType() string {
	return c.DbType
}

// Transacter:

type Tx struct {
	txSql *sql.Tx
}

func (t *Tx) Exec(query string, args ...interface{}) (Result, error) {
	return t.ExecContext(context.Background(), query, args...)
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return t.txSql.ExecContext(ctx, query, args...)
}

func (t *Tx) Commit() error {
	return t.txSql.Commit()
}

func (t *Tx) Rollback() error {
	return t.txSql.Rollback()
}
