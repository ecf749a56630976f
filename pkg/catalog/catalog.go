package catalog

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/domain/types"
)

// Entry pairs a query with the way its result is presented. Exactly one of
// Chart and Metric is set.
type Entry struct {
	Query  model.QuerySpec
	Chart  *model.ChartSpec
	Metric *model.MetricSpec
}

// Catalog is the ordered, immutable set of dashboard queries
type Catalog struct {
	entries []Entry
	index   map[types.QueryName]int
}

// New builds a catalog and validates every entry
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[types.QueryName]int, len(entries)),
	}

	for _, e := range entries {
		e.Query.SQL = strings.TrimSpace(e.Query.SQL)
		if err := e.Query.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid catalog entry")
		}
		if (e.Chart == nil) == (e.Metric == nil) {
			return nil, goerr.New("catalog entry needs exactly one of chart or metric",
				goerr.V("name", e.Query.Name))
		}
		if _, dup := c.index[e.Query.Name]; dup {
			return nil, goerr.New("duplicate catalog entry", goerr.V("name", e.Query.Name))
		}

		c.index[e.Query.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	return c, nil
}

// Entries returns all entries in declaration order
func (c *Catalog) Entries() []Entry {
	result := make([]Entry, len(c.entries))
	copy(result, c.entries)
	return result
}

// Names returns entry names in declaration order
func (c *Catalog) Names() []types.QueryName {
	names := make([]types.QueryName, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Query.Name
	}
	return names
}

// Lookup returns the entry for name
func (c *Catalog) Lookup(name types.QueryName) (Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

func num(name string) model.Column  { return model.Column{Name: name, Type: model.ColumnNumber} }
func str(name string) model.Column  { return model.Column{Name: name, Type: model.ColumnString} }
func date(name string) model.Column { return model.Column{Name: name, Type: model.ColumnDate} }

// Default returns the account usage catalog. Entries without Ranged always
// aggregate the full history regardless of the selected window.
func Default() *Catalog {
	c, err := New(defaultEntries()...)
	if err != nil {
		panic("default catalog is invalid: " + err.Error())
	}
	return c
}

func defaultEntries() []Entry {
	return []Entry{
		{
			Query: model.QuerySpec{
				Name:    "credits_used",
				Title:   "Credits Used",
				SQL:     sqlCreditsUsed,
				Ranged:  true,
				Columns: []model.Column{num("TOTAL_CREDITS")},
			},
			Metric: &model.MetricSpec{Title: "Credits Used", Column: "TOTAL_CREDITS"},
		},
		{
			Query: model.QuerySpec{
				Name:    "jobs_executed",
				Title:   "Total # of Jobs Executed",
				SQL:     sqlJobsExecuted,
				Ranged:  true,
				Columns: []model.Column{num("NUMBER_OF_JOBS")},
			},
			Metric: &model.MetricSpec{Title: "Total # of Jobs Executed", Column: "NUMBER_OF_JOBS"},
		},
		{
			Query: model.QuerySpec{
				Name:    "current_storage",
				Title:   "Current Storage (TB)",
				SQL:     sqlCurrentStorage,
				Columns: []model.Column{num("BILLABLE_TB")},
			},
			Metric: &model.MetricSpec{Title: "Current Storage (TB)", Column: "BILLABLE_TB", Precision: 2},
		},
		{
			Query: model.QuerySpec{
				Name:    "credits_by_warehouse",
				Title:   "Credits Used by Warehouse",
				SQL:     sqlCreditsByWarehouse,
				Ranged:  true,
				Columns: []model.Column{str("WAREHOUSE_NAME"), num("TOTAL_CREDITS_USED")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "TOTAL_CREDITS_USED",
				Y:           "WAREHOUSE_NAME",
				Orientation: model.Horizontal,
				Title:       "Credits Used by Warehouse",
				MarkerColor: "green",
			},
		},
		{
			Query: model.QuerySpec{
				Name:    "jobs_by_warehouse",
				Title:   "# of Jobs by Warehouse",
				SQL:     sqlJobsByWarehouse,
				Ranged:  true,
				Columns: []model.Column{str("WAREHOUSE_NAME"), num("NUMBER_OF_JOBS")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "NUMBER_OF_JOBS",
				Y:           "WAREHOUSE_NAME",
				Orientation: model.Horizontal,
				Title:       "# of Jobs by Warehouse",
				MarkerColor: "purple",
			},
		},
		{
			Query: model.QuerySpec{
				Name:    "execution_by_query_type",
				Title:   "Average Execution by Query Type",
				SQL:     sqlExecutionByQueryType,
				Ranged:  true,
				Columns: []model.Column{str("QUERY_TYPE"), str("WAREHOUSE_SIZE"), num("AVERAGE_EXECUTION_TIME")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "AVERAGE_EXECUTION_TIME",
				Y:           "QUERY_TYPE",
				Color:       "WAREHOUSE_SIZE",
				Orientation: model.Horizontal,
				Title:       "Average Execution by Query Type",
				BarMode:     model.BarModeGroup,
			},
		},
		{
			Query: model.QuerySpec{
				Name:    "credits_over_time",
				Title:   "Credits Used Over Time",
				SQL:     sqlCreditsOverTime,
				Ranged:  true,
				Columns: []model.Column{date("USAGE_DATE"), str("WAREHOUSE_NAME"), num("TOTAL_CREDITS_USED")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "USAGE_DATE",
				Y:           "TOTAL_CREDITS_USED",
				Color:       "WAREHOUSE_NAME",
				Orientation: model.Vertical,
				Title:       "Credits Used Over Time",
			},
		},
		{
			Query: model.QuerySpec{
				Name:    "longest_successful_queries",
				Title:   "Longest Successful Queries (Top 25)",
				SQL:     sqlLongestSuccessfulQueries,
				Ranged:  true,
				Columns: []model.Column{str("QUERY_ID"), str("QUERY_TEXT"), num("EXEC_TIME")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "EXEC_TIME",
				Y:           "QUERY_TEXT",
				Orientation: model.Horizontal,
				Title:       "Longest Successful Queries (Top 25)",
			},
		},
		{
			Query: model.QuerySpec{
				Name:    "longest_failed_queries",
				Title:   "Longest Failed Queries (Top 25)",
				SQL:     sqlLongestFailedQueries,
				Ranged:  true,
				Columns: []model.Column{str("QUERY_ID"), str("QUERY_TEXT"), num("EXEC_TIME")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "EXEC_TIME",
				Y:           "QUERY_TEXT",
				Orientation: model.Horizontal,
				Title:       "Longest Failed Queries (Top 25)",
				MarkerColor: "red",
			},
		},
		{
			Query: model.QuerySpec{
				Name:   "warehouse_variance",
				Title:  "Warehouse Variance to 7 Day Average",
				SQL:    sqlWarehouseVariance,
				Ranged: true,
				Columns: []model.Column{
					str("WAREHOUSE_NAME"),
					date("USAGE_DATE"),
					num("CREDITS_USED"),
					num("CREDITS_USED_7_DAY_AVG"),
					num("VARIANCE_TO_7_DAY_AVERAGE"),
				},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "USAGE_DATE",
				Y:           "VARIANCE_TO_7_DAY_AVERAGE",
				Color:       "WAREHOUSE_NAME",
				Orientation: model.Vertical,
				Title:       "Warehouse Variance to 7 Day Average",
				BarMode:     model.BarModeGroup,
				ValueSuffix: "%",
			},
		},
		{
			Query: model.QuerySpec{
				Name:    "repeated_query_execution",
				Title:   "Total Execution Time by Repeated Queries",
				SQL:     sqlRepeatedQueryExecution,
				Ranged:  true,
				Columns: []model.Column{str("QUERY_TEXT"), num("EXEC_TIME")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "EXEC_TIME",
				Y:           "QUERY_TEXT",
				Orientation: model.Horizontal,
				Title:       "Total Execution Time by Repeated Queries",
				MarkerColor: "LightSkyBlue",
			},
		},
		{
			Query: model.QuerySpec{
				Name:    "credits_billed_by_month",
				Title:   "Credits Billed by Month",
				SQL:     sqlCreditsBilledByMonth,
				Columns: []model.Column{date("USAGE_MONTH"), num("CREDITS_BILLED")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "USAGE_MONTH",
				Y:           "CREDITS_BILLED",
				Orientation: model.Vertical,
				Title:       "Credits Billed by Month",
			},
		},
		{
			Query: model.QuerySpec{
				Name:    "execution_by_user",
				Title:   "Average Execution Time per User",
				SQL:     sqlExecutionByUser,
				Columns: []model.Column{str("USER_NAME"), num("AVERAGE_EXECUTION_TIME")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "USER_NAME",
				Y:           "AVERAGE_EXECUTION_TIME",
				Orientation: model.Vertical,
				Title:       "Average Execution Time per User",
				MarkerColor: "MediumPurple",
			},
		},
		{
			Query: model.QuerySpec{
				Name:    "cloud_services_by_query_type",
				Title:   "CS Utilization by Query Type (Top 10)",
				SQL:     sqlCloudServicesByQueryType,
				Columns: []model.Column{str("QUERY_TYPE"), num("CS_CREDITS"), num("NUM_QUERIES")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "QUERY_TYPE",
				Y:           "CS_CREDITS",
				Orientation: model.Vertical,
				Title:       "CS Utilization by Query Type (Top 10)",
				MarkerColor: "green",
			},
		},
		{
			Query: model.QuerySpec{
				Name:    "cloud_services_by_warehouse",
				Title:   "Compute and Cloud Services by Warehouse",
				SQL:     sqlCloudServicesByWarehouse,
				Columns: []model.Column{str("WAREHOUSE_NAME"), num("CREDITS_USED_CLOUD_SERVICES")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "WAREHOUSE_NAME",
				Y:           "CREDITS_USED_CLOUD_SERVICES",
				Orientation: model.Vertical,
				Title:       "Compute and Cloud Services by Warehouse",
				MarkerColor: "purple",
				BarMode:     model.BarModeGroup,
			},
		},
		{
			Query: model.QuerySpec{
				Name:  "storage_over_time",
				Title: "Data Storage Used Over Time",
				SQL:   sqlStorageOverTime,
				Columns: []model.Column{
					date("USAGE_MONTH"),
					num("BILLABLE_TB"),
					num("STORAGE_TB"),
					num("STAGE_TB"),
					num("FAILSAFE_TB"),
				},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "USAGE_MONTH",
				Y:           "BILLABLE_TB",
				Orientation: model.Vertical,
				Title:       "Data Storage Used Over Time",
				BarMode:     model.BarModeGroup,
			},
		},
		{
			Query: model.QuerySpec{
				Name:    "rows_loaded",
				Title:   "Rows Loaded Over Time (Copy Into)",
				SQL:     sqlRowsLoaded,
				Ranged:  true,
				Columns: []model.Column{date("USAGE_DATE"), num("TOTAL_ROWS")},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartLine,
				X:           "USAGE_DATE",
				Y:           "TOTAL_ROWS",
				Orientation: model.Vertical,
				Title:       "Rows Loaded Over Time (Copy Into)",
			},
		},
		{
			Query: model.QuerySpec{
				Name:  "logins_by_user",
				Title: "Logins by User",
				SQL:   sqlLoginsByUser,
				Columns: []model.Column{
					str("USER_NAME"),
					num("FAILED"),
					num("SUCCESS"),
					num("TOTAL"),
					num("LOGIN_FAILURE_RATE"),
				},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "USER_NAME",
				Y:           "SUCCESS",
				Orientation: model.Vertical,
				Title:       "Logins by User",
				MarkerColor: "green",
				BarMode:     model.BarModeGroup,
			},
		},
		{
			Query: model.QuerySpec{
				Name:  "logins_by_client",
				Title: "Logins by Client",
				SQL:   sqlLoginsByClient,
				Columns: []model.Column{
					str("CLIENT"),
					str("USER_NAME"),
					num("FAILED"),
					num("SUCCESS"),
					num("TOTAL"),
					num("LOGIN_FAILURE_RATE"),
				},
			},
			Chart: &model.ChartSpec{
				Kind:        model.ChartBar,
				X:           "CLIENT",
				Y:           "SUCCESS",
				Orientation: model.Vertical,
				Title:       "Logins by Client",
				MarkerColor: "purple",
			},
		},
	}
}
