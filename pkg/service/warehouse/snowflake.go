package warehouse

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/domain/interfaces"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/snowflakedb/gosnowflake"
)

// queryTagPrefix marks statements issued by the dashboard in QUERY_HISTORY
const queryTagPrefix = "usageboard:"

// Config holds the connection parameters for a Snowflake account
type Config struct {
	Account   string
	User      string
	Password  string
	Role      string
	Warehouse string
	Database  string
	Schema    string
}

// Snowflake runs catalog statements through database/sql
type Snowflake struct {
	db *sql.DB
}

var _ interfaces.Warehouse = (*Snowflake)(nil)

// DSN builds the driver connection string
func (c Config) DSN() (string, error) {
	if c.Account == "" || c.User == "" {
		return "", goerr.New("snowflake account and user are required")
	}

	dsn, err := gosnowflake.DSN(&gosnowflake.Config{
		Account:   c.Account,
		User:      c.User,
		Password:  c.Password,
		Role:      c.Role,
		Warehouse: c.Warehouse,
		Database:  c.Database,
		Schema:    c.Schema,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to build snowflake DSN", goerr.V("account", c.Account))
	}
	return dsn, nil
}

// NewSnowflake opens a connection pool and checks that it is alive
func NewSnowflake(ctx context.Context, cfg Config) (*Snowflake, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open snowflake connection", goerr.V("account", cfg.Account))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to ping snowflake", goerr.V("account", cfg.Account))
	}

	ctxlog.From(ctx).Info("Connected to Snowflake",
		"account", cfg.Account,
		"warehouse", cfg.Warehouse,
	)

	return &Snowflake{db: db}, nil
}

// NewFromDB wraps an already opened handle
func NewFromDB(db *sql.DB) *Snowflake {
	return &Snowflake{db: db}
}

// Query executes the statement and scans each row by the declared column
// types. Result columns are matched by position.
func (s *Snowflake) Query(ctx context.Context, stmt model.Statement) (*model.QueryResult, error) {
	ctx = gosnowflake.WithQueryTag(ctx, queryTagPrefix+stmt.Name.String())

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to execute query", goerr.V("query", stmt.Name))
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read result columns", goerr.V("query", stmt.Name))
	}
	if len(names) != len(stmt.Columns) {
		return nil, goerr.New("result column count does not match declaration",
			goerr.V("query", stmt.Name),
			goerr.V("expected", len(stmt.Columns)),
			goerr.V("actual", len(names)),
		)
	}

	result := &model.QueryResult{
		Columns: stmt.Columns,
		Rows:    []model.Row{},
	}

	for rows.Next() {
		dest := newScanTargets(stmt.Columns)
		if err := rows.Scan(dest...); err != nil {
			return nil, goerr.Wrap(err, "failed to scan row",
				goerr.V("query", stmt.Name), goerr.V("row", len(result.Rows)))
		}
		result.Rows = append(result.Rows, toRow(stmt.Columns, dest))
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed while reading rows", goerr.V("query", stmt.Name))
	}

	ctxlog.From(ctx).Debug("Query completed",
		slog.String("query", stmt.Name.String()),
		slog.Int("rows", len(result.Rows)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

// Close releases the connection pool
func (s *Snowflake) Close() error {
	if err := s.db.Close(); err != nil {
		return goerr.Wrap(err, "failed to close snowflake connection")
	}
	return nil
}

func newScanTargets(columns []model.Column) []any {
	dest := make([]any, len(columns))
	for i, c := range columns {
		switch c.Type {
		case model.ColumnNumber:
			dest[i] = new(sql.NullFloat64)
		case model.ColumnDate:
			dest[i] = new(sql.NullTime)
		default:
			dest[i] = new(sql.NullString)
		}
	}
	return dest
}

func toRow(columns []model.Column, dest []any) model.Row {
	row := make(model.Row, len(columns))
	for i, c := range columns {
		var v any
		switch d := dest[i].(type) {
		case *sql.NullFloat64:
			if d.Valid {
				v = d.Float64
			}
		case *sql.NullTime:
			if d.Valid {
				v = d.Time.UTC()
			}
		case *sql.NullString:
			if d.Valid {
				v = d.String
			}
		}
		row[c.Name] = v
	}
	return row
}
