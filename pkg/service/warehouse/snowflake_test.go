package warehouse_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/service/warehouse"
)

func newMock(t *testing.T) (*warehouse.Snowflake, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = db.Close() })
	return warehouse.NewFromDB(db), mock
}

var creditsOverTime = model.Statement{
	Name: "credits_over_time",
	SQL:  "SELECT usage_date, warehouse_name, total_credits_used FROM t WHERE start_time BETWEEN ? AND ?",
	Args: []any{"2025-01-20", "2025-01-23"},
	Columns: []model.Column{
		{Name: "USAGE_DATE", Type: model.ColumnDate},
		{Name: "WAREHOUSE_NAME", Type: model.ColumnString},
		{Name: "TOTAL_CREDITS_USED", Type: model.ColumnNumber},
	},
}

func TestSnowflakeQuery(t *testing.T) {
	wh, mock := newMock(t)

	d1 := time.Date(2025, 1, 23, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"USAGE_DATE", "WAREHOUSE_NAME", "TOTAL_CREDITS_USED"}).
		AddRow(d1, "ANALYTICS_VW", 123.45).
		AddRow(d2, "LOADING_VW", 75).
		AddRow(d2, nil, nil)

	mock.ExpectQuery(creditsOverTime.SQL).
		WithArgs("2025-01-20", "2025-01-23").
		WillReturnRows(rows)

	result, err := wh.Query(context.Background(), creditsOverTime)
	gt.NoError(t, err).Required()

	gt.Equal(t, result.Columns, creditsOverTime.Columns)
	gt.A(t, result.Rows).Length(3)

	gt.Equal(t, result.Rows[0]["USAGE_DATE"], any(d1))
	gt.Equal(t, result.Rows[0]["WAREHOUSE_NAME"], any("ANALYTICS_VW"))
	gt.Equal(t, result.Rows[0]["TOTAL_CREDITS_USED"], any(123.45))
	gt.Equal(t, result.Rows[1]["TOTAL_CREDITS_USED"], any(75.0))

	// SQL NULL stays nil
	gt.Nil(t, result.Rows[2]["WAREHOUSE_NAME"])
	gt.Nil(t, result.Rows[2]["TOTAL_CREDITS_USED"])

	gt.NoError(t, mock.ExpectationsWereMet())
}

func TestSnowflakeQuery_Empty(t *testing.T) {
	wh, mock := newMock(t)

	mock.ExpectQuery(creditsOverTime.SQL).
		WithArgs("2025-01-20", "2025-01-23").
		WillReturnRows(sqlmock.NewRows([]string{"USAGE_DATE", "WAREHOUSE_NAME", "TOTAL_CREDITS_USED"}))

	result, err := wh.Query(context.Background(), creditsOverTime)
	gt.NoError(t, err).Required()
	gt.NotNil(t, result.Rows)
	gt.A(t, result.Rows).Length(0)
	gt.NoError(t, mock.ExpectationsWereMet())
}

func TestSnowflakeQuery_Unranged(t *testing.T) {
	wh, mock := newMock(t)

	stmt := model.Statement{
		Name:    "execution_by_user",
		SQL:     "SELECT user_name, average_execution_time FROM t",
		Columns: []model.Column{{Name: "USER_NAME", Type: model.ColumnString}, {Name: "AVERAGE_EXECUTION_TIME", Type: model.ColumnNumber}},
	}
	mock.ExpectQuery(stmt.SQL).
		WillReturnRows(sqlmock.NewRows([]string{"USER_NAME", "AVERAGE_EXECUTION_TIME"}).AddRow("ALICE", 1.5))

	result, err := wh.Query(context.Background(), stmt)
	gt.NoError(t, err).Required()
	gt.A(t, result.Rows).Length(1)
	gt.NoError(t, mock.ExpectationsWereMet())
}

func TestSnowflakeQuery_Errors(t *testing.T) {
	t.Run("Query failure", func(t *testing.T) {
		wh, mock := newMock(t)
		mock.ExpectQuery(creditsOverTime.SQL).
			WithArgs("2025-01-20", "2025-01-23").
			WillReturnError(errors.New("warehouse suspended"))

		_, err := wh.Query(context.Background(), creditsOverTime)
		gt.Error(t, err)
		gt.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Row error", func(t *testing.T) {
		wh, mock := newMock(t)
		rows := sqlmock.NewRows([]string{"USAGE_DATE", "WAREHOUSE_NAME", "TOTAL_CREDITS_USED"}).
			AddRow(time.Date(2025, 1, 23, 0, 0, 0, 0, time.UTC), "WH1", 123.45).
			AddRow(time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC), "WH2", 678.90).
			RowError(1, errors.New("simulated row error"))
		mock.ExpectQuery(creditsOverTime.SQL).
			WithArgs("2025-01-20", "2025-01-23").
			WillReturnRows(rows)

		_, err := wh.Query(context.Background(), creditsOverTime)
		gt.Error(t, err)
		gt.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Column count mismatch", func(t *testing.T) {
		wh, mock := newMock(t)
		mock.ExpectQuery(creditsOverTime.SQL).
			WithArgs("2025-01-20", "2025-01-23").
			WillReturnRows(sqlmock.NewRows([]string{"USAGE_DATE"}).AddRow(time.Now()))

		_, err := wh.Query(context.Background(), creditsOverTime)
		gt.Error(t, err)
		gt.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSnowflakeClose(t *testing.T) {
	wh, mock := newMock(t)
	mock.ExpectClose()
	gt.NoError(t, wh.Close())
	gt.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigDSN(t *testing.T) {
	t.Run("Account and user are required", func(t *testing.T) {
		_, err := warehouse.Config{User: "viewer"}.DSN()
		gt.Error(t, err)
		_, err = warehouse.Config{Account: "xy12345"}.DSN()
		gt.Error(t, err)
	})

	t.Run("Builds a DSN", func(t *testing.T) {
		dsn, err := warehouse.Config{
			Account:   "xy12345",
			User:      "viewer",
			Password:  "secret",
			Warehouse: "MONITOR_WH",
			Database:  "SNOWFLAKE",
			Schema:    "ACCOUNT_USAGE",
		}.DSN()
		gt.NoError(t, err).Required()
		gt.S(t, dsn).Contains("viewer")
		gt.S(t, dsn).Contains("xy12345")
		gt.S(t, dsn).Contains("warehouse=MONITOR_WH")
	})
}
