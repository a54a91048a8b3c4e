package schema

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed postgres.sql
var postgresDDL string

//go:embed sqlite.sql
var sqliteDDL string

// ErrUnknownDriver возвращается для неподдерживаемого драйвера
var ErrUnknownDriver = errors.New("schema: unknown driver")

// Execer минимальный интерфейс для применения схемы
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// DDL возвращает схему для драйвера ("postgres" или "sqlite3")
func DDL(driver string) (string, error) {
	switch driver {
	case "postgres":
		return postgresDDL, nil
	case "sqlite3":
		return sqliteDDL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// Apply создает таблицы и индексы, если их еще нет
func Apply(ctx context.Context, db Execer, driver string) error {
	ddl, err := DDL(driver)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("schema: apply %s: %w", driver, err)
	}
	return nil
}
