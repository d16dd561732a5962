package snapstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "modernc.org/sqlite"             // sqlite driver
)

// Table names for snapshot history.
const (
	assessmentsTable  = "mri_assessments"
	roleScoresTable   = "mri_role_scores"
	driverScoresTable = "mri_driver_scores"
)

// allTables lists the tables in creation order.
var allTables = []string{assessmentsTable, roleScoresTable, driverScoresTable}

// SnapshotStoreImpl implements the SnapshotStore interface on database/sql.
type SnapshotStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// driverNameFor maps a backend to its database/sql driver name.
func driverNameFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings a connection for the backend.
func openDB(ctx context.Context, backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	driverName, err := driverNameFor(backend)
	if err != nil {
		return nil, "", err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = GetSnapshotDBFilePath()
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		switch backend {
		case schema.MySQLBackend:
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		case schema.PostgreSQLBackend:
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=", err)
		default:
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", connStr, err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, "", fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, driverName, nil
}

// NewSnapshotStore creates a new SnapshotStore with the specified backend.
// The none backend yields a store that keeps nothing and finds no history.
func NewSnapshotStore(ctx context.Context, backend schema.DatabaseBackend, connStr string) (*SnapshotStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &SnapshotStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openDB(ctx, backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createSnapshotTables(ctx, db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create snapshot tables: %w", err)
	}

	return &SnapshotStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createSnapshotTables creates the snapshot tables and the site lookup index.
func createSnapshotTables(ctx context.Context, db *sql.DB, backend schema.DatabaseBackend) error {
	queries := []struct {
		name  string
		query string
	}{
		{assessmentsTable, getCreateAssessmentsQuery(backend)},
		{roleScoresTable, getCreateRoleScoresQuery(backend)},
		{driverScoresTable, getCreateDriverScoresQuery(backend)},
	}
	if backend != schema.MySQLBackend {
		queries = append(queries, struct {
			name  string
			query string
		}{"idx_mri_assessments_site", fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_mri_assessments_site ON %s (org_id, site_id, assessment_date)",
			quoteTableName(assessmentsTable, backend))})
	}

	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q.query); err != nil {
			return fmt.Errorf("failed to create %s: %w", q.name, err)
		}
	}
	return nil
}

// getCreateAssessmentsQuery returns the CREATE TABLE query for mri_assessments.
// Dates are stored as YYYY-MM-DD text so they compare lexically on every backend.
func getCreateAssessmentsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(assessmentsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq BIGINT AUTO_INCREMENT PRIMARY KEY,
				assessment_id VARCHAR(64) NOT NULL UNIQUE,
				org_id VARCHAR(128) NOT NULL,
				site_id VARCHAR(128) NOT NULL,
				assessment_date VARCHAR(10) NOT NULL,
				overall_score DOUBLE,
				top_driver VARCHAR(64),
				baseline_id VARCHAR(64),
				delta_points DOUBLE,
				created_at BIGINT NOT NULL,
				INDEX idx_mri_assessments_site (org_id, site_id, assessment_date)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq BIGSERIAL PRIMARY KEY,
				assessment_id TEXT NOT NULL UNIQUE,
				org_id TEXT NOT NULL,
				site_id TEXT NOT NULL,
				assessment_date VARCHAR(10) NOT NULL,
				overall_score DOUBLE PRECISION,
				top_driver TEXT,
				baseline_id TEXT,
				delta_points DOUBLE PRECISION,
				created_at BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				assessment_id TEXT NOT NULL UNIQUE,
				org_id TEXT NOT NULL,
				site_id TEXT NOT NULL,
				assessment_date TEXT NOT NULL,
				overall_score REAL,
				top_driver TEXT,
				baseline_id TEXT,
				delta_points REAL,
				created_at INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateRoleScoresQuery returns the CREATE TABLE query for mri_role_scores.
func getCreateRoleScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(roleScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				assessment_id VARCHAR(64) NOT NULL,
				role_id VARCHAR(191) NOT NULL,
				position INT NOT NULL,
				raw_score DOUBLE NOT NULL,
				percentage DOUBLE NOT NULL,
				PRIMARY KEY (assessment_id, role_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				assessment_id TEXT NOT NULL,
				role_id TEXT NOT NULL,
				position INT NOT NULL,
				raw_score DOUBLE PRECISION NOT NULL,
				percentage DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (assessment_id, role_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				assessment_id TEXT NOT NULL,
				role_id TEXT NOT NULL,
				position INTEGER NOT NULL,
				raw_score REAL NOT NULL,
				percentage REAL NOT NULL,
				PRIMARY KEY (assessment_id, role_id)
			);
		`, quotedTableName)
	}
}

// getCreateDriverScoresQuery returns the CREATE TABLE query for mri_driver_scores.
func getCreateDriverScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(driverScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				assessment_id VARCHAR(64) NOT NULL,
				driver_key VARCHAR(64) NOT NULL,
				position INT NOT NULL,
				mean_score DOUBLE NOT NULL,
				percentage DOUBLE NOT NULL,
				PRIMARY KEY (assessment_id, driver_key)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				assessment_id TEXT NOT NULL,
				driver_key TEXT NOT NULL,
				position INT NOT NULL,
				mean_score DOUBLE PRECISION NOT NULL,
				percentage DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (assessment_id, driver_key)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				assessment_id TEXT NOT NULL,
				driver_key TEXT NOT NULL,
				position INTEGER NOT NULL,
				mean_score REAL NOT NULL,
				percentage REAL NOT NULL,
				PRIMARY KEY (assessment_id, driver_key)
			);
		`, quotedTableName)
	}
}

// quoteTableName quotes a table name for the backend's SQL dialect.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// rebind rewrites ? placeholders to $N for PostgreSQL.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close closes the underlying connection.
func (s *SnapshotStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// disabled reports whether the store keeps no data.
func (s *SnapshotStoreImpl) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}
