package warehouse

import (
	"time"

	"github.com/uptrace/bun"
)

// DailySale is one row of the sales fact table: revenue and units for one
// product in one region on one day.
type DailySale struct {
	bun.BaseModel `bun:"table:fct_daily_sales"`

	SaleDate      time.Time `bun:"sale_date,type:date"`
	Region        string    `bun:"region"`
	Category      string    `bun:"category"`
	ProductName   string    `bun:"product_name"`
	DailyRevenue  float64   `bun:"daily_revenue"`
	DailyQuantity int64     `bun:"daily_quantity"`
}
