package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	warehousex "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/warehouse"
)

const (
	ToolCategoryPerformance = "warehouse.category_performance"
	ToolRegionalPerformance = "warehouse.regional_performance"
	ToolTopProducts         = "warehouse.top_products"
	ToolMonthlyTrend        = "warehouse.monthly_trend"
	ToolYoYComparison       = "warehouse.yoy_comparison"
	ToolCategoryShare       = "warehouse.category_share"
	ToolRegionShare         = "warehouse.region_share"
)

const categoryDesc = "Product category name, e.g. 'Electronics', 'Clothing', 'Home and Garden', 'Sports', 'Grocery'."

// Queries is the warehouse read surface the executor dispatches to.
// Implemented by warehouse.Warehouse.
type Queries interface {
	CategoryPerformance(ctx context.Context, category string) ([]warehousex.CategoryPerformanceRow, error)
	RegionalPerformance(ctx context.Context, category string) ([]warehousex.RegionalPerformanceRow, error)
	TopProducts(ctx context.Context, category string, limit int) ([]warehousex.TopProductRow, error)
	MonthlyTrend(ctx context.Context, category string, months int) ([]warehousex.MonthlyTrendRow, error)
	YoYComparison(ctx context.Context, category string) ([]warehousex.YoYComparisonRow, error)
	CategoryShare(ctx context.Context) ([]warehousex.ShareRow, error)
	RegionShare(ctx context.Context) ([]warehousex.ShareRow, error)
}

// InfosFor returns the tool declarations an analyst may invoke. The market
// analyst carries none: its external grounding comes from the search-enabled
// completion model, not from warehouse reads.
func InfosFor(analyst contractx.AnalystType) []*schema.ToolInfo {
	switch analyst {
	case contractx.AnalystTypeInternalData:
		return []*schema.ToolInfo{
			{
				Name: ToolCategoryPerformance,
				Desc: "Revenue, units sold, and average order value for a product category.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"category": {Type: schema.String, Desc: categoryDesc, Required: true},
				}),
			},
			{
				Name: ToolRegionalPerformance,
				Desc: "Performance breakdown by region for a product category.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"category": {Type: schema.String, Desc: categoryDesc, Required: true},
				}),
			},
			{
				Name: ToolTopProducts,
				Desc: "Top-selling products in a category ranked by revenue.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"category": {Type: schema.String, Desc: categoryDesc, Required: true},
					"limit":    {Type: schema.Integer, Desc: "Number of products to return (default 10).", Required: false},
				}),
			},
		}
	case contractx.AnalystTypeTrend:
		return []*schema.ToolInfo{
			{
				Name: ToolMonthlyTrend,
				Desc: "Month-over-month revenue trend for a category.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"category": {Type: schema.String, Desc: categoryDesc, Required: true},
					"months":   {Type: schema.Integer, Desc: "Number of recent months to include (default 12).", Required: false},
				}),
			},
			{
				Name: ToolYoYComparison,
				Desc: "Year-over-year revenue comparison for a category with growth rates.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"category": {Type: schema.String, Desc: categoryDesc, Required: true},
				}),
			},
			{
				Name: ToolCategoryShare,
				Desc: "Revenue share across all product categories.",
			},
			{
				Name: ToolRegionShare,
				Desc: "Revenue share across all sales regions.",
			},
		}
	default:
		return nil
	}
}

// Executor dispatches tool requests to the warehouse and converts every
// outcome, including failures, into a result envelope. Each analyst may only
// reach the tools declared for it.
type Executor struct {
	queries Queries
	allowed map[contractx.AnalystType]map[string]struct{}
}

func NewExecutor(queries Queries) *Executor {
	allowed := make(map[contractx.AnalystType]map[string]struct{})
	for _, analyst := range []contractx.AnalystType{
		contractx.AnalystTypeInternalData,
		contractx.AnalystTypeMarketResearch,
		contractx.AnalystTypeTrend,
	} {
		set := make(map[string]struct{})
		for _, info := range InfosFor(analyst) {
			set[info.Name] = struct{}{}
		}
		allowed[analyst] = set
	}
	return &Executor{queries: queries, allowed: allowed}
}

func (e *Executor) Execute(ctx context.Context, analyst contractx.AnalystType, req contractx.ToolRequest) contractx.Envelope {
	started := time.Now()

	if _, ok := e.allowed[analyst][req.Tool]; !ok {
		return contractx.ErrorEnvelope(fmt.Sprintf("tool=%s is unavailable for analyst=%s", req.Tool, analyst))
	}

	var env contractx.Envelope
	switch req.Tool {
	case ToolCategoryPerformance:
		env = e.categoryPerformance(ctx, req.Args)
	case ToolRegionalPerformance:
		env = e.regionalPerformance(ctx, req.Args)
	case ToolTopProducts:
		env = e.topProducts(ctx, req.Args)
	case ToolMonthlyTrend:
		env = e.monthlyTrend(ctx, req.Args)
	case ToolYoYComparison:
		env = e.yoyComparison(ctx, req.Args)
	case ToolCategoryShare:
		env = e.categoryShare(ctx)
	case ToolRegionShare:
		env = e.regionShare(ctx)
	default:
		env = contractx.ErrorEnvelope(fmt.Sprintf("unknown tool=%s", req.Tool))
	}

	log.Debug().
		Str("analyst", string(analyst)).
		Str("tool", req.Tool).
		Str("status", string(env.Status)).
		Dur("elapsed", time.Since(started)).
		Msg("tool executed")

	return env
}
