package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/domain/types"
)

// ColumnType is the scalar kind a result column is scanned into
type ColumnType string

const (
	ColumnNumber ColumnType = "number"
	ColumnString ColumnType = "string"
	ColumnDate   ColumnType = "date"
)

// Column is one declared result column
type Column struct {
	Name string     `json:"name" yaml:"name"`
	Type ColumnType `json:"type" yaml:"type"`
}

// QuerySpec is a named, read-only query template against the usage views.
// A ranged spec carries exactly two placeholders bound as (start, end).
type QuerySpec struct {
	Name    types.QueryName `json:"name" yaml:"name"`
	Title   string          `json:"title" yaml:"title"`
	SQL     string          `json:"sql" yaml:"sql"`
	Ranged  bool            `json:"ranged" yaml:"ranged"`
	Columns []Column        `json:"columns" yaml:"columns"`
}

// Validate checks that the placeholder count matches the Ranged flag
func (q *QuerySpec) Validate() error {
	if q.Name == "" {
		return goerr.New("query name is empty")
	}
	if len(q.Columns) == 0 {
		return goerr.New("query declares no columns", goerr.V("name", q.Name))
	}

	placeholders := strings.Count(q.SQL, "?")
	switch {
	case q.Ranged && placeholders != 2:
		return goerr.New("ranged query must have two placeholders",
			goerr.V("name", q.Name), goerr.V("placeholders", placeholders))
	case !q.Ranged && placeholders != 0:
		return goerr.New("unranged query must not have placeholders",
			goerr.V("name", q.Name), goerr.V("placeholders", placeholders))
	}
	return nil
}

// Statement binds the spec to the given range
func (q *QuerySpec) Statement(r DateRange) Statement {
	stmt := Statement{
		Name:    q.Name,
		SQL:     q.SQL,
		Columns: q.Columns,
	}
	if q.Ranged {
		stmt.Args = r.Args()
	}
	return stmt
}

// Statement is a fully bound query ready to send to the warehouse
type Statement struct {
	Name    types.QueryName
	SQL     string
	Args    []any
	Columns []Column
}

// Row maps declared column names to scalar values: float64, string,
// time.Time, or nil for SQL NULL
type Row map[string]any

// QueryResult is the tabular output of one statement
type QueryResult struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn reports whether the result declares the named column
func (r *QueryResult) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Float returns the numeric value of a cell, treating NULL and missing as 0
func (r Row) Float(name string) float64 {
	switch v := r[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Time returns the date value of a cell
func (r Row) Time(name string) (time.Time, bool) {
	v, ok := r[name].(time.Time)
	return v, ok
}
