package warehouse

import (
	"context"
	"time"
)

type CategoryPerformanceRow struct {
	Category      string    `bun:"category"`
	TotalRevenue  float64   `bun:"total_revenue"`
	TotalUnits    int64     `bun:"total_units"`
	AvgOrderValue float64   `bun:"avg_order_value"`
	EarliestDate  time.Time `bun:"earliest_date"`
	LatestDate    time.Time `bun:"latest_date"`
}

type RegionalPerformanceRow struct {
	Region        string  `bun:"region"`
	TotalRevenue  float64 `bun:"total_revenue"`
	TotalUnits    int64   `bun:"total_units"`
	AvgOrderValue float64 `bun:"avg_order_value"`
}

type TopProductRow struct {
	ProductName  string  `bun:"product_name"`
	TotalRevenue float64 `bun:"total_revenue"`
	TotalUnits   int64   `bun:"total_units"`
}

type MonthlyTrendRow struct {
	Month          string  `bun:"month"`
	MonthlyRevenue float64 `bun:"monthly_revenue"`
	MonthlyUnits   int64   `bun:"monthly_units"`
}

type YoYComparisonRow struct {
	Year          int      `bun:"year"`
	AnnualRevenue float64  `bun:"annual_revenue"`
	AnnualUnits   int64    `bun:"annual_units"`
	YoYGrowthPct  *float64 `bun:"yoy_growth_pct"`
}

type ShareRow struct {
	Name       string  `bun:"name"`
	Revenue    float64 `bun:"revenue"`
	PctOfTotal float64 `bun:"pct_of_total"`
}

func (w *Warehouse) CategoryPerformance(ctx context.Context, category string) ([]CategoryPerformanceRow, error) {
	ctx, cancel := w.queryContext(ctx)
	defer cancel()

	var rows []CategoryPerformanceRow
	err := w.db.NewSelect().
		Model((*DailySale)(nil)).
		ColumnExpr("category").
		ColumnExpr("SUM(daily_revenue) AS total_revenue").
		ColumnExpr("SUM(daily_quantity) AS total_units").
		ColumnExpr("ROUND(AVG(daily_revenue / NULLIF(daily_quantity, 0))::numeric, 2) AS avg_order_value").
		ColumnExpr("MIN(sale_date) AS earliest_date").
		ColumnExpr("MAX(sale_date) AS latest_date").
		Where("LOWER(category) = LOWER(?)", category).
		GroupExpr("category").
		Scan(ctx, &rows)
	return rows, err
}

func (w *Warehouse) RegionalPerformance(ctx context.Context, category string) ([]RegionalPerformanceRow, error) {
	ctx, cancel := w.queryContext(ctx)
	defer cancel()

	var rows []RegionalPerformanceRow
	err := w.db.NewSelect().
		Model((*DailySale)(nil)).
		ColumnExpr("region").
		ColumnExpr("SUM(daily_revenue) AS total_revenue").
		ColumnExpr("SUM(daily_quantity) AS total_units").
		ColumnExpr("ROUND(AVG(daily_revenue / NULLIF(daily_quantity, 0))::numeric, 2) AS avg_order_value").
		Where("LOWER(category) = LOWER(?)", category).
		GroupExpr("region").
		OrderExpr("total_revenue DESC").
		Scan(ctx, &rows)
	return rows, err
}

func (w *Warehouse) TopProducts(ctx context.Context, category string, limit int) ([]TopProductRow, error) {
	ctx, cancel := w.queryContext(ctx)
	defer cancel()

	var rows []TopProductRow
	err := w.db.NewSelect().
		Model((*DailySale)(nil)).
		ColumnExpr("product_name").
		ColumnExpr("SUM(daily_revenue) AS total_revenue").
		ColumnExpr("SUM(daily_quantity) AS total_units").
		Where("LOWER(category) = LOWER(?)", category).
		GroupExpr("product_name").
		OrderExpr("total_revenue DESC").
		Limit(limit).
		Scan(ctx, &rows)
	return rows, err
}

func (w *Warehouse) MonthlyTrend(ctx context.Context, category string, months int) ([]MonthlyTrendRow, error) {
	ctx, cancel := w.queryContext(ctx)
	defer cancel()

	var rows []MonthlyTrendRow
	err := w.db.NewSelect().
		Model((*DailySale)(nil)).
		ColumnExpr("to_char(sale_date, 'YYYY-MM') AS month").
		ColumnExpr("SUM(daily_revenue) AS monthly_revenue").
		ColumnExpr("SUM(daily_quantity) AS monthly_units").
		Where("LOWER(category) = LOWER(?)", category).
		GroupExpr("month").
		OrderExpr("month DESC").
		Limit(months).
		Scan(ctx, &rows)
	return rows, err
}

func (w *Warehouse) YoYComparison(ctx context.Context, category string) ([]YoYComparisonRow, error) {
	ctx, cancel := w.queryContext(ctx)
	defer cancel()

	var rows []YoYComparisonRow
	err := w.db.NewRaw(`
		WITH yearly AS (
			SELECT
				EXTRACT(YEAR FROM sale_date)::int AS year,
				SUM(daily_revenue) AS annual_revenue,
				SUM(daily_quantity) AS annual_units
			FROM fct_daily_sales
			WHERE LOWER(category) = LOWER(?)
			GROUP BY year
		)
		SELECT
			year,
			annual_revenue,
			annual_units,
			ROUND(
				((annual_revenue - LAG(annual_revenue) OVER (ORDER BY year))
				/ NULLIF(LAG(annual_revenue) OVER (ORDER BY year), 0) * 100)::numeric,
				2
			) AS yoy_growth_pct
		FROM yearly
		ORDER BY year
	`, category).Scan(ctx, &rows)
	return rows, err
}

func (w *Warehouse) CategoryShare(ctx context.Context) ([]ShareRow, error) {
	ctx, cancel := w.queryContext(ctx)
	defer cancel()

	var rows []ShareRow
	err := w.db.NewRaw(`
		WITH totals AS (
			SELECT category AS name, SUM(daily_revenue) AS revenue
			FROM fct_daily_sales
			GROUP BY category
		)
		SELECT
			name,
			revenue,
			ROUND((revenue / SUM(revenue) OVER () * 100)::numeric, 2) AS pct_of_total
		FROM totals
		ORDER BY revenue DESC
	`).Scan(ctx, &rows)
	return rows, err
}

func (w *Warehouse) RegionShare(ctx context.Context) ([]ShareRow, error) {
	ctx, cancel := w.queryContext(ctx)
	defer cancel()

	var rows []ShareRow
	err := w.db.NewRaw(`
		WITH totals AS (
			SELECT region AS name, SUM(daily_revenue) AS revenue
			FROM fct_daily_sales
			GROUP BY region
		)
		SELECT
			name,
			revenue,
			ROUND((revenue / SUM(revenue) OVER () * 100)::numeric, 2) AS pct_of_total
		FROM totals
		ORDER BY revenue DESC
	`).Scan(ctx, &rows)
	return rows, err
}
