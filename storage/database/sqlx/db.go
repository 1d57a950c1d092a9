package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// NewDB wraps an opened postgres handle for the sqlx repositories.
func NewDB(db *sql.DB) *sqlx.DB {
	return sqlx.NewDb(db, "postgres")
}
