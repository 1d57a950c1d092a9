package database

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/academia/core"
	appfs "github.com/trezcool/academia/fs"
)

const (
	// EnginePostgres is the only SQL engine; "memory" never reaches this package.
	EnginePostgres = "postgres"

	maintenanceDB = "postgres"
	migrationsDir = "migrations"
)

var (
	ErrEngineNotSupported = errors.New("database engine not supported")

	pingAttempts = 30                     // mockable
	pingBackoff  = 100 * time.Millisecond // mockable
)

func checkEngine(conf *core.Config) error {
	if conf.Database.Engine != EnginePostgres {
		return errors.Wrapf(ErrEngineNotSupported, "%q", conf.Database.Engine)
	}
	return nil
}

// dsn returns the connection URL for dbName, as the app role or the admin role.
func dsn(conf *core.Config, dbName string, admin bool) string {
	dbc := conf.Database
	user := url.UserPassword(dbc.User, dbc.Password)
	if admin && dbc.AdminUser != "" {
		user = url.UserPassword(dbc.AdminUser, dbc.AdminPassword)
	}

	sslMode := "require"
	if dbc.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")
	q.Set("application_name", conf.AppName)

	u := url.URL{
		Scheme:   EnginePostgres,
		User:     user,
		Host:     dbc.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// connect opens dbName and waits for it to answer; the handle is closed on failure.
func connect(ctx context.Context, conf *core.Config, dbName string, admin bool) (*sql.DB, error) {
	if err := checkEngine(conf); err != nil {
		return nil, err
	}
	db, err := sql.Open(EnginePostgres, dsn(conf, dbName, admin))
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", dbName)
	}
	if err = waitReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "connecting to %s", dbName)
	}
	return db, nil
}

// Open opens the app database and waits for it to answer.
func Open(conf *core.Config) (*sql.DB, error) {
	return connect(context.Background(), conf, conf.Database.Name, false)
}

// waitReady pings db until it answers, waiting pingBackoff longer after each failed attempt.
func waitReady(ctx context.Context, db *sql.DB) error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "waiting for database")
		case <-time.After(time.Duration(attempt) * pingBackoff):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

// CreateIfNotExist makes sure the app role & database exist, connecting with the admin role.
// The database is owned by the app role so that migrations can run as the app.
func CreateIfNotExist(conf *core.Config) error {
	ctx := context.Background()
	db, err := connect(ctx, conf, maintenanceDB, true)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if conf.Database.User != "" && conf.Database.User != conf.Database.AdminUser {
		if err = ensure(ctx, db, "SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)",
			conf.Database.User, createRoleStmt(conf)); err != nil {
			return errors.Wrap(err, "creating app role")
		}
	}
	if err = ensure(ctx, db, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)",
		conf.Database.Name, createDBStmt(conf)); err != nil {
		return errors.Wrap(err, "creating database")
	}
	return nil
}

// ensure runs create unless the existence query answers true for name.
func ensure(ctx context.Context, db *sql.DB, existsQuery, name, create string) error {
	var exists bool
	if err := db.QueryRowContext(ctx, existsQuery, name).Scan(&exists); err != nil {
		return errors.Wrapf(err, "checking %q", name)
	}
	if exists {
		return nil
	}
	// DDL takes no bind parameters
	_, err := db.ExecContext(ctx, create)
	return err
}

func createRoleStmt(conf *core.Config) string {
	return "CREATE ROLE " + pq.QuoteIdentifier(conf.Database.User) +
		" LOGIN ENCRYPTED PASSWORD " + pq.QuoteLiteral(conf.Database.Password)
}

func createDBStmt(conf *core.Config) string {
	stmt := "CREATE DATABASE " + pq.QuoteIdentifier(conf.Database.Name)
	if conf.Database.User != "" {
		stmt += " OWNER " + pq.QuoteIdentifier(conf.Database.User)
	}
	return stmt + " ENCODING 'UTF8'"
}

// Migrate runs a goose command ("up", "down", "status", ...) against the embedded migrations.
func Migrate(db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect(EnginePostgres); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		return errors.Wrapf(err, "running migration %q", command)
	}
	return nil
}
