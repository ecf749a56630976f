package catalog

// Usage views live in SNOWFLAKE.ACCOUNT_USAGE. Ranged statements take the
// selected window as two bind values for an inclusive BETWEEN.

const sqlCreditsUsed = `
SELECT
    ROUND(COALESCE(SUM(credits_used), 0), 0) AS total_credits
FROM snowflake.account_usage.metering_history
WHERE start_time BETWEEN ? AND ?`

const sqlJobsExecuted = `
SELECT
    COUNT(*) AS number_of_jobs
FROM snowflake.account_usage.query_history
WHERE start_time BETWEEN ? AND ?`

const sqlCurrentStorage = `
SELECT
    COALESCE(ROUND(AVG(storage_bytes + stage_bytes + failsafe_bytes) / POWER(1024, 4), 2), 0) AS billable_tb
FROM snowflake.account_usage.storage_usage
WHERE usage_date = (SELECT MAX(usage_date) FROM snowflake.account_usage.storage_usage)`

const sqlCreditsByWarehouse = `
SELECT
    warehouse_name,
    SUM(credits_used) AS total_credits_used
FROM snowflake.account_usage.warehouse_metering_history
WHERE start_time BETWEEN ? AND ?
GROUP BY 1
ORDER BY 2 DESC, 1
LIMIT 10`

const sqlJobsByWarehouse = `
SELECT
    warehouse_name,
    COUNT(*) AS number_of_jobs
FROM snowflake.account_usage.query_history
WHERE start_time BETWEEN ? AND ?
GROUP BY 1
ORDER BY 2 DESC, 1
LIMIT 10`

const sqlExecutionByQueryType = `
SELECT
    query_type,
    warehouse_size,
    AVG(execution_time) / 1000 AS average_execution_time
FROM snowflake.account_usage.query_history
WHERE start_time BETWEEN ? AND ?
GROUP BY 1, 2
ORDER BY 3 DESC, 1, 2`

const sqlCreditsOverTime = `
SELECT
    start_time::DATE AS usage_date,
    warehouse_name,
    SUM(credits_used) AS total_credits_used
FROM snowflake.account_usage.warehouse_metering_history
WHERE start_time BETWEEN ? AND ?
GROUP BY 1, 2
ORDER BY 2, 1`

const sqlLongestSuccessfulQueries = `
SELECT
    query_id,
    query_text,
    execution_time / 60000 AS exec_time
FROM snowflake.account_usage.query_history
WHERE execution_status = 'SUCCESS'
    AND start_time BETWEEN ? AND ?
ORDER BY execution_time DESC, query_id
LIMIT 25`

const sqlLongestFailedQueries = `
SELECT
    query_id,
    query_text,
    execution_time / 60000 AS exec_time
FROM snowflake.account_usage.query_history
WHERE execution_status = 'FAIL'
    AND start_time BETWEEN ? AND ?
ORDER BY execution_time DESC, query_id
LIMIT 25`

const sqlWarehouseVariance = `
SELECT
    warehouse_name,
    usage_date,
    credits_used,
    credits_used_7_day_avg,
    ROUND(credits_used / NULLIF(credits_used_7_day_avg, 0) * 100, 2) - 100 AS variance_to_7_day_average
FROM (
    SELECT
        warehouse_name,
        start_time::DATE AS usage_date,
        SUM(credits_used) AS credits_used,
        AVG(SUM(credits_used)) OVER (
            PARTITION BY warehouse_name
            ORDER BY start_time::DATE
            ROWS BETWEEN 7 PRECEDING AND CURRENT ROW
        ) AS credits_used_7_day_avg
    FROM snowflake.account_usage.warehouse_metering_history
    WHERE start_time BETWEEN ? AND ?
    GROUP BY 1, 2
)
ORDER BY usage_date DESC, warehouse_name`

const sqlRepeatedQueryExecution = `
SELECT
    query_text,
    SUM(execution_time) / 60000 AS exec_time
FROM snowflake.account_usage.query_history
WHERE execution_status = 'SUCCESS'
    AND start_time BETWEEN ? AND ?
GROUP BY query_text
ORDER BY exec_time DESC, query_text
LIMIT 10`

const sqlCreditsBilledByMonth = `
SELECT
    DATE_TRUNC('MONTH', usage_date) AS usage_month,
    SUM(credits_billed) AS credits_billed
FROM snowflake.account_usage.metering_daily_history
GROUP BY 1
ORDER BY 1`

const sqlExecutionByUser = `
SELECT
    user_name,
    AVG(execution_time) / 1000 AS average_execution_time
FROM snowflake.account_usage.query_history
GROUP BY 1
ORDER BY 2 DESC, 1
LIMIT 10`

const sqlCloudServicesByQueryType = `
SELECT
    query_type,
    SUM(credits_used_cloud_services) AS cs_credits,
    COUNT(1) AS num_queries
FROM snowflake.account_usage.query_history
GROUP BY 1
ORDER BY 2 DESC, 1
LIMIT 10`

const sqlCloudServicesByWarehouse = `
SELECT
    warehouse_name,
    SUM(credits_used_cloud_services) AS credits_used_cloud_services
FROM snowflake.account_usage.warehouse_metering_history
GROUP BY 1
ORDER BY 2 DESC, 1
LIMIT 10`

const sqlStorageOverTime = `
SELECT
    DATE_TRUNC('MONTH', usage_date) AS usage_month,
    AVG(storage_bytes + stage_bytes + failsafe_bytes) / POWER(1024, 4) AS billable_tb,
    AVG(storage_bytes) / POWER(1024, 4) AS storage_tb,
    AVG(stage_bytes) / POWER(1024, 4) AS stage_tb,
    AVG(failsafe_bytes) / POWER(1024, 4) AS failsafe_tb
FROM snowflake.account_usage.storage_usage
GROUP BY 1
ORDER BY 1`

const sqlRowsLoaded = `
SELECT
    DATE_TRUNC('DAY', last_load_time)::DATE AS usage_date,
    SUM(row_count) AS total_rows
FROM snowflake.account_usage.load_history
WHERE last_load_time BETWEEN ? AND ?
GROUP BY 1
ORDER BY 1 DESC`

const sqlLoginsByUser = `
SELECT
    user_name,
    SUM(IFF(is_success = 'NO', 1, 0)) AS failed,
    SUM(IFF(is_success = 'YES', 1, 0)) AS success,
    COUNT(*) AS total,
    SUM(IFF(is_success = 'NO', 1, 0)) / NULLIF(COUNT(*), 0) AS login_failure_rate
FROM snowflake.account_usage.login_history
GROUP BY 1
ORDER BY 5 DESC NULLS LAST, 1`

const sqlLoginsByClient = `
SELECT
    reported_client_type AS client,
    user_name,
    SUM(IFF(is_success = 'NO', 1, 0)) AS failed,
    SUM(IFF(is_success = 'YES', 1, 0)) AS success,
    COUNT(*) AS total,
    SUM(IFF(is_success = 'NO', 1, 0)) / NULLIF(COUNT(*), 0) AS login_failure_rate
FROM snowflake.account_usage.login_history
GROUP BY 1, 2
ORDER BY 6 DESC NULLS LAST, 1, 2`
