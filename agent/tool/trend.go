package tool

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	warehousex "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/warehouse"
)

// Historical-pattern tools used by the trend analyst.

func (e *Executor) monthlyTrend(ctx context.Context, args map[string]any) contractx.Envelope {
	category, err := stringArg(args, "category")
	if err != nil {
		return contractx.ErrorEnvelope(err.Error())
	}
	months, err := intArg(args, "months", 12, 1, 60)
	if err != nil {
		return contractx.ErrorEnvelope(err.Error())
	}

	rows, err := e.queries.MonthlyTrend(ctx, category, months)
	if err != nil {
		return contractx.ErrorEnvelope(fmt.Sprintf("monthly trend query: %v", err))
	}
	if len(rows) == 0 {
		return contractx.EmptyEnvelope(fmt.Sprintf("no trend data for category: %s", category))
	}

	out := make([]contractx.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, contractx.Row{
			"month":           r.Month,
			"monthly_revenue": r.MonthlyRevenue,
			"monthly_units":   r.MonthlyUnits,
		})
	}
	return contractx.SuccessEnvelope(out)
}

func (e *Executor) yoyComparison(ctx context.Context, args map[string]any) contractx.Envelope {
	category, err := stringArg(args, "category")
	if err != nil {
		return contractx.ErrorEnvelope(err.Error())
	}

	rows, err := e.queries.YoYComparison(ctx, category)
	if err != nil {
		return contractx.ErrorEnvelope(fmt.Sprintf("yoy comparison query: %v", err))
	}
	if len(rows) == 0 {
		return contractx.EmptyEnvelope(fmt.Sprintf("no yoy data for category: %s", category))
	}

	out := make([]contractx.Row, 0, len(rows))
	for _, r := range rows {
		row := contractx.Row{
			"year":           r.Year,
			"annual_revenue": r.AnnualRevenue,
			"annual_units":   r.AnnualUnits,
		}
		if r.YoYGrowthPct != nil {
			row["yoy_growth_pct"] = *r.YoYGrowthPct
		}
		out = append(out, row)
	}
	return contractx.SuccessEnvelope(out)
}

func (e *Executor) categoryShare(ctx context.Context) contractx.Envelope {
	rows, err := e.queries.CategoryShare(ctx)
	if err != nil {
		return contractx.ErrorEnvelope(fmt.Sprintf("category share query: %v", err))
	}
	return shareEnvelope("category", rows, "no category data found")
}

func (e *Executor) regionShare(ctx context.Context) contractx.Envelope {
	rows, err := e.queries.RegionShare(ctx)
	if err != nil {
		return contractx.ErrorEnvelope(fmt.Sprintf("region share query: %v", err))
	}
	return shareEnvelope("region", rows, "no region data found")
}

func shareEnvelope(dimension string, rows []warehousex.ShareRow, emptyMessage string) contractx.Envelope {
	if len(rows) == 0 {
		return contractx.EmptyEnvelope(emptyMessage)
	}
	out := make([]contractx.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, contractx.Row{
			dimension:      r.Name,
			"revenue":      r.Revenue,
			"pct_of_total": r.PctOfTotal,
		})
	}
	return contractx.SuccessEnvelope(out)
}
