package tool

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
)

// Current-performance tools used by the internal data analyst.

const isoDateLayout = "2006-01-02"

func (e *Executor) categoryPerformance(ctx context.Context, args map[string]any) contractx.Envelope {
	category, err := stringArg(args, "category")
	if err != nil {
		return contractx.ErrorEnvelope(err.Error())
	}

	rows, err := e.queries.CategoryPerformance(ctx, category)
	if err != nil {
		return contractx.ErrorEnvelope(fmt.Sprintf("category performance query: %v", err))
	}
	if len(rows) == 0 {
		return contractx.EmptyEnvelope(fmt.Sprintf("no data found for category: %s", category))
	}

	out := make([]contractx.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, contractx.Row{
			"category":        r.Category,
			"total_revenue":   r.TotalRevenue,
			"total_units":     r.TotalUnits,
			"avg_order_value": r.AvgOrderValue,
			"earliest_date":   r.EarliestDate.Format(isoDateLayout),
			"latest_date":     r.LatestDate.Format(isoDateLayout),
		})
	}
	return contractx.SuccessEnvelope(out)
}

func (e *Executor) regionalPerformance(ctx context.Context, args map[string]any) contractx.Envelope {
	category, err := stringArg(args, "category")
	if err != nil {
		return contractx.ErrorEnvelope(err.Error())
	}

	rows, err := e.queries.RegionalPerformance(ctx, category)
	if err != nil {
		return contractx.ErrorEnvelope(fmt.Sprintf("regional performance query: %v", err))
	}
	if len(rows) == 0 {
		return contractx.EmptyEnvelope(fmt.Sprintf("no regional data for category: %s", category))
	}

	out := make([]contractx.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, contractx.Row{
			"region":          r.Region,
			"total_revenue":   r.TotalRevenue,
			"total_units":     r.TotalUnits,
			"avg_order_value": r.AvgOrderValue,
		})
	}
	return contractx.SuccessEnvelope(out)
}

func (e *Executor) topProducts(ctx context.Context, args map[string]any) contractx.Envelope {
	category, err := stringArg(args, "category")
	if err != nil {
		return contractx.ErrorEnvelope(err.Error())
	}
	limit, err := intArg(args, "limit", 10, 1, 50)
	if err != nil {
		return contractx.ErrorEnvelope(err.Error())
	}

	rows, err := e.queries.TopProducts(ctx, category, limit)
	if err != nil {
		return contractx.ErrorEnvelope(fmt.Sprintf("top products query: %v", err))
	}
	if len(rows) == 0 {
		return contractx.EmptyEnvelope(fmt.Sprintf("no products found for category: %s", category))
	}

	out := make([]contractx.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, contractx.Row{
			"product_name":  r.ProductName,
			"total_revenue": r.TotalRevenue,
			"total_units":   r.TotalUnits,
		})
	}
	return contractx.SuccessEnvelope(out)
}
