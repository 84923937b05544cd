package state

import (
	"context"
	"database/sql"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mt-software-de/wodoo/pkg/errors"
)

const (
	moduleTable     = "ir_module_module"
	dependencyTable = "ir_module_module_dependency"
)

// Queries use ? placeholders; dialects with numbered parameters rewrite
// them before execution.
const (
	queryState = `SELECT state FROM ir_module_module WHERE name = ?`

	queryInstalled = `SELECT name FROM ir_module_module
		WHERE state NOT IN ('uninstalled', 'uninstallable', 'to remove')
		ORDER BY name`

	queryDangling = `SELECT name, state FROM ir_module_module
		WHERE state NOT IN ('installed', 'uninstalled', 'uninstallable')
		ORDER BY name`

	queryMissing = `SELECT DISTINCT d.name
		FROM ir_module_module_dependency d
		INNER JOIN ir_module_module m ON m.id = d.module_id
		INNER JOIN ir_module_module mprior ON mprior.name = d.name
		WHERE m.state IN ('installed', 'to install', 'to upgrade')
		AND mprior.state = 'uninstalled'
		ORDER BY d.name`

	tablesPostgres = `SELECT count(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?`
	tablesSQLite   = `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
)

// Driver names of the supported databases.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// dialect is the SQL spoken through one database/sql driver.
type dialect struct {
	driver     string
	tableQuery string
	numbered   bool
}

var dialects = map[string]dialect{
	DriverPostgres: {driver: DriverPostgres, tableQuery: tablesPostgres, numbered: true},
	DriverSQLite:   {driver: DriverSQLite, tableQuery: tablesSQLite},
}

// rebind rewrites ? placeholders to $1, $2, ... for numbered dialects.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseDSN picks the driver for dsn and returns the connection string to
// hand to it.
//
// postgres:// and postgresql:// URLs and libpq keyword/value strings
// ("host=db dbname=prod") select PostgreSQL, the platform's production
// database. sqlite:// URLs, file: URIs and plain paths select SQLite; the
// sqlite:// prefix is stripped.
func ParseDSN(dsn string) (driver, conn string, err error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return "", "", errors.New(errors.ErrCodeInvalidInput, "empty database DSN")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"):
		return DriverSQLite, dsn, nil
	case keywordDSN.MatchString(dsn):
		return DriverPostgres, dsn, nil
	case strings.Contains(dsn, "://"):
		return "", "", errors.New(errors.ErrCodeInvalidInput, "unsupported database scheme in %q", dsn)
	}
	return DriverSQLite, dsn, nil
}

// keywordDSN matches libpq keyword/value connection strings.
var keywordDSN = regexp.MustCompile(`(^|\s)(host|hostaddr|dbname|user|port)=`)

// SQLStore reads module states from the platform's module tables over
// PostgreSQL (pgx) or SQLite. It never writes.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  *log.Logger
}

// Open connects to the database named by dsn, choosing the driver with
// [ParseDSN]. A nil logger disables logging.
func Open(ctx context.Context, dsn string, logger *log.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	driver, conn, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, conn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabase, err, "open %s", dsn)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeDatabase, err, "connect %s", dsn)
	}
	logger.Debug("connected module-state database", "driver", driver)
	return NewSQLStore(db, driver, logger)
}

// NewSQLStore wraps an open database handle of the given driver. The store
// takes ownership of db and closes it on Close.
func NewSQLStore(db *sql.DB, driver string, logger *log.Logger) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported database driver %q", driver)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SQLStore{db: db, dialect: d, logger: logger}, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initialized reports whether table exists. A fresh database has none of
// the module tables.
func (s *SQLStore) initialized(ctx context.Context, table string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.dialect.rebind(s.dialect.tableQuery), table).Scan(&n); err != nil {
		return false, errors.Wrap(errors.ErrCodeDatabase, err, "look up table %s", table)
	}
	if n == 0 {
		s.logger.Debug("database not initialized", "table", table)
	}
	return n > 0, nil
}

func (s *SQLStore) State(ctx context.Context, name string) (State, error) {
	if ok, err := s.initialized(ctx, moduleTable); !ok || err != nil {
		return Unknown, err
	}
	var st string
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(queryState), name).Scan(&st)
	if err == sql.ErrNoRows {
		return Unknown, nil
	}
	if err != nil {
		return Unknown, errors.Wrap(errors.ErrCodeDatabase, err, "read state of %s", name)
	}
	return State(st), nil
}

func (s *SQLStore) IsInstalled(ctx context.Context, name string) (bool, error) {
	st, err := s.State(ctx, name)
	return st.IsInstalled(), err
}

func (s *SQLStore) Installed(ctx context.Context) ([]string, error) {
	if ok, err := s.initialized(ctx, moduleTable); !ok || err != nil {
		return []string{}, err
	}
	return s.names(ctx, queryInstalled, "list installed modules")
}

func (s *SQLStore) Dangling(ctx context.Context) ([]Record, error) {
	if ok, err := s.initialized(ctx, moduleTable); !ok || err != nil {
		return []Record{}, err
	}
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(queryDangling))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabase, err, "list dangling modules")
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		var st string
		if err := rows.Scan(&r.Name, &st); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDatabase, err, "list dangling modules")
		}
		r.State = State(st)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabase, err, "list dangling modules")
	}
	return records, nil
}

func (s *SQLStore) MissingDependencies(ctx context.Context) ([]string, error) {
	for _, table := range []string{moduleTable, dependencyTable} {
		if ok, err := s.initialized(ctx, table); !ok || err != nil {
			return []string{}, err
		}
	}
	return s.names(ctx, queryMissing, "list missing dependencies")
}

func (s *SQLStore) names(ctx context.Context, query, what string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabase, err, "%s", what)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDatabase, err, "%s", what)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabase, err, "%s", what)
	}
	return names, nil
}
