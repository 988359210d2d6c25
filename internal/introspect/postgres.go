// Package introspect derives schema manifests from a live PostgreSQL
// database by reading information_schema catalog views.
package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/highergov/schemactl/pkg/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// Options describes the database to introspect.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

// Introspector reads table, primary-key, and foreign-key metadata from a
// PostgreSQL catalog.
type Introspector struct {
	db     *sql.DB
	schema string
	logger *slog.Logger
}

// Open connects to PostgreSQL and returns an Introspector.
// If logger is nil, a discard logger is used.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Introspector, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dsn := BuildDSN(opts)
	logger.Debug("connecting to postgres", slog.String("host", opts.Host), slog.String("database", opts.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return NewWithDB(db, opts.Schema, logger), nil
}

// NewWithDB wraps an existing connection. Used by Open and by tests.
func NewWithDB(db *sql.DB, schemaName string, logger *slog.Logger) *Introspector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if schemaName == "" {
		schemaName = "public"
	}
	return &Introspector{db: db, schema: schemaName, logger: logger}
}

// Close releases the database connection.
func (in *Introspector) Close() error {
	return in.db.Close()
}

// BuildDSN constructs a PostgreSQL connection string.
func BuildDSN(opts Options) string {
	host := opts.Host
	if host == "" {
		host = "localhost"
	}
	port := opts.Port
	if port == 0 {
		port = 5432
	}
	sslmode := opts.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, opts.Database, sslmode)
	if opts.User != "" {
		dsn += fmt.Sprintf(" user=%s", opts.User)
	}
	if opts.Password != "" {
		dsn += fmt.Sprintf(" password=%s", opts.Password)
	}
	return dsn
}

const tablesQuery = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = $1 AND table_type = 'BASE TABLE'
	ORDER BY table_name
`

const primaryKeysQuery = `
	SELECT tc.table_name, kcu.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
	  ON kcu.constraint_name = tc.constraint_name
	 AND kcu.table_schema = tc.table_schema
	WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = $1
	ORDER BY tc.table_name, kcu.ordinal_position
`

const foreignKeysQuery = `
	SELECT tc.table_name, kcu.column_name, ccu.table_name, ccu.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
	  ON kcu.constraint_name = tc.constraint_name
	 AND kcu.table_schema = tc.table_schema
	JOIN information_schema.constraint_column_usage ccu
	  ON ccu.constraint_name = tc.constraint_name
	 AND ccu.table_schema = tc.table_schema
	WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1
	ORDER BY tc.table_name, kcu.column_name
`

// Descriptors reads the catalog and returns one descriptor per base table,
// sorted by name. Tables without a primary key are included so a
// subsequent validation surfaces them.
func (in *Introspector) Descriptors(ctx context.Context) ([]schema.Descriptor, error) {
	tables, err := in.tableNames(ctx)
	if err != nil {
		return nil, err
	}

	pks, err := in.primaryKeys(ctx)
	if err != nil {
		return nil, err
	}

	fks, err := in.foreignKeys(ctx)
	if err != nil {
		return nil, err
	}

	sort.Strings(tables)
	descriptors := make([]schema.Descriptor, 0, len(tables))
	for _, name := range tables {
		descriptors = append(descriptors, schema.Descriptor{
			TableName:   name,
			PrimaryKeys: pks[name],
			ForeignKeys: fks[name],
		})
	}

	in.logger.Debug("introspected schema",
		slog.String("schema", in.schema), slog.Int("tables", len(descriptors)))

	return descriptors, nil
}

func (in *Introspector) tableNames(ctx context.Context) ([]string, error) {
	rows, err := in.db.QueryContext(ctx, tablesQuery, in.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (in *Introspector) primaryKeys(ctx context.Context) (map[string]schema.KeySet, error) {
	rows, err := in.db.QueryContext(ctx, primaryKeysQuery, in.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query primary keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	pks := make(map[string]schema.KeySet)
	for rows.Next() {
		var tableName, column string
		if err := rows.Scan(&tableName, &column); err != nil {
			return nil, fmt.Errorf("failed to scan primary key: %w", err)
		}
		pks[tableName] = append(pks[tableName], column)
	}
	return pks, rows.Err()
}

func (in *Introspector) foreignKeys(ctx context.Context) (map[string][]schema.ForeignKeyRef, error) {
	rows, err := in.db.QueryContext(ctx, foreignKeysQuery, in.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	fks := make(map[string][]schema.ForeignKeyRef)
	for rows.Next() {
		var tableName, local, refTable, refColumn string
		if err := rows.Scan(&tableName, &local, &refTable, &refColumn); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		fks[tableName] = append(fks[tableName], schema.ForeignKeyRef{
			LocalColumn:      local,
			ReferencedTable:  refTable,
			ReferencedColumn: refColumn,
		})
	}
	return fks, rows.Err()
}
