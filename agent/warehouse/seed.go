package warehouse

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Synthetic retail dataset: five years of daily sales with seasonal shape,
// per-category growth, regional strength, and reproducible noise. Seeded so
// repeated runs load identical data, which keeps the read-only query tools
// deterministic.

const (
	seedRandSource     = 42
	seedStartDate      = "2020-01-01"
	seedEndDate        = "2024-12-31"
	seedBatchSize      = 5000
	weekendRevenueBump = 1.15
)

var seedRegions = []string{"Northeast", "Southeast", "Midwest", "West", "Southwest"}

var seedRegionWeights = map[string]map[string]float64{
	"Northeast": {"Electronics": 1.3, "Clothing": 1.2, "Home and Garden": 0.9, "Sports": 0.8, "Grocery": 1.0},
	"Southeast": {"Electronics": 0.9, "Clothing": 1.0, "Home and Garden": 1.3, "Sports": 1.1, "Grocery": 1.2},
	"Midwest":   {"Electronics": 0.8, "Clothing": 0.9, "Home and Garden": 1.1, "Sports": 1.3, "Grocery": 1.1},
	"West":      {"Electronics": 1.4, "Clothing": 1.3, "Home and Garden": 1.0, "Sports": 1.2, "Grocery": 0.9},
	"Southwest": {"Electronics": 1.0, "Clothing": 0.8, "Home and Garden": 1.2, "Sports": 1.0, "Grocery": 1.1},
}

type seedCategory struct {
	Name         string
	BaseRevenue  float64
	AnnualGrowth float64
	Seasonality  string
	Products     []string
	MinPrice     float64
	MaxPrice     float64
}

var seedCategories = []seedCategory{
	{
		Name:         "Electronics",
		BaseRevenue:  800,
		AnnualGrowth: 0.08,
		Seasonality:  "holiday",
		Products: []string{
			"Wireless Headphones", "Bluetooth Speaker", "USB-C Hub", "Portable Charger",
			"Mechanical Keyboard", "Gaming Mouse", "Webcam HD", "Smart Watch",
			"Tablet Stand", "LED Monitor",
		},
		MinPrice: 25, MaxPrice: 350,
	},
	{
		Name:         "Clothing",
		BaseRevenue:  600,
		AnnualGrowth: 0.03,
		Seasonality:  "bimodal",
		Products: []string{
			"Cotton T-Shirt", "Denim Jeans", "Running Shoes", "Winter Jacket",
			"Polo Shirt", "Yoga Pants", "Rain Jacket", "Casual Sneakers",
			"Wool Sweater", "Athletic Shorts",
		},
		MinPrice: 20, MaxPrice: 150,
	},
	{
		Name:         "Home and Garden",
		BaseRevenue:  500,
		AnnualGrowth: 0.12,
		Seasonality:  "summer",
		Products: []string{
			"Garden Hose", "LED Bulb Pack", "Throw Pillow Set", "Plant Pot Ceramic",
			"Tool Set Basic", "Outdoor Chair", "Welcome Mat", "Kitchen Organizer",
			"Wall Shelf", "Candle Set",
		},
		MinPrice: 15, MaxPrice: 200,
	},
	{
		Name:         "Sports",
		BaseRevenue:  400,
		AnnualGrowth: 0.05,
		Seasonality:  "summer",
		Products: []string{
			"Yoga Mat", "Resistance Bands", "Water Bottle Steel", "Jump Rope",
			"Foam Roller", "Dumbbell Set", "Sports Bag", "Fitness Tracker Band",
			"Tennis Balls Pack", "Running Belt",
		},
		MinPrice: 10, MaxPrice: 120,
	},
	{
		Name:         "Grocery",
		BaseRevenue:  900,
		AnnualGrowth: 0.02,
		Seasonality:  "holiday",
		Products: []string{
			"Organic Coffee Beans", "Protein Bars Box", "Olive Oil Premium",
			"Mixed Nuts Bag", "Green Tea Pack", "Dark Chocolate Bar",
			"Granola Cereal", "Coconut Water Case", "Honey Jar Raw",
			"Trail Mix Variety",
		},
		MinPrice: 5, MaxPrice: 45,
	},
}

func seasonalityFactor(date time.Time, kind string) float64 {
	month := int(date.Month())

	switch kind {
	case "holiday":
		switch {
		case month == 11:
			return 1.5
		case month == 12:
			return 1.8
		case month == 1 || month == 2:
			return 0.7
		case month == 6 || month == 7:
			return 0.9
		default:
			return 1.0
		}
	case "summer":
		switch {
		case month >= 5 && month <= 8:
			return 1.4
		case month == 12 || month == 1 || month == 2:
			return 0.6
		case month == 3 || month == 4 || month == 9:
			return 1.1
		default:
			return 0.9
		}
	case "bimodal":
		switch {
		case month == 3 || month == 4:
			return 1.3
		case month == 9 || month == 10:
			return 1.4
		case month == 1 || month == 2 || month == 7 || month == 8:
			return 0.8
		default:
			return 1.0
		}
	}
	return 1.0
}

// productWeight maps a product name to a stable share in [0.5, 1.5).
func productWeight(product string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(product))
	return 0.5 + float64(h.Sum32()%100)/100
}

// GenerateDailySales builds the full synthetic dataset for the given seed.
// The same seed always yields the same rows.
func GenerateDailySales(seed int64) []DailySale {
	rng := rand.New(rand.NewSource(seed))

	start, _ := time.Parse("2006-01-02", seedStartDate)
	end, _ := time.Parse("2006-01-02", seedEndDate)

	var rows []DailySale
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		yearsElapsed := date.Sub(start).Hours() / 24 / 365.25

		dowFactor := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			dowFactor = weekendRevenueBump
		}

		for _, cat := range seedCategories {
			growthFactor := math.Pow(1+cat.AnnualGrowth, yearsElapsed)
			seasonalFactor := seasonalityFactor(date, cat.Seasonality)
			base := cat.BaseRevenue / float64(len(cat.Products))

			for _, region := range seedRegions {
				regionWeight := seedRegionWeights[region][cat.Name]

				for _, product := range cat.Products {
					weight := productWeight(product)

					revenue := base * growthFactor * seasonalFactor * dowFactor * regionWeight * weight
					noise := rng.NormFloat64()*0.2 + 1.0
					revenue = revenue * noise
					if revenue < 1.0 {
						revenue = 1.0
					}
					revenue = math.Round(revenue*100) / 100

					avgPrice := (cat.MinPrice + cat.MaxPrice) / 2
					effectivePrice := avgPrice * (0.5 + weight*0.5)
					quantity := int64(revenue / effectivePrice)
					if quantity < 1 {
						quantity = 1
					}

					rows = append(rows, DailySale{
						SaleDate:      date,
						Region:        region,
						Category:      cat.Name,
						ProductName:   product,
						DailyRevenue:  revenue,
						DailyQuantity: quantity,
					})
				}
			}
		}
	}
	return rows
}

// Seed drops and recreates the sales fact table, then loads the synthetic
// dataset in batches.
func (w *Warehouse) Seed(ctx context.Context) (int, error) {
	rows := GenerateDailySales(seedRandSource)

	if _, err := w.db.NewDropTable().Model((*DailySale)(nil)).IfExists().Exec(ctx); err != nil {
		return 0, fmt.Errorf("drop sales table: %w", err)
	}
	if _, err := w.db.NewCreateTable().Model((*DailySale)(nil)).Exec(ctx); err != nil {
		return 0, fmt.Errorf("create sales table: %w", err)
	}

	for offset := 0; offset < len(rows); offset += seedBatchSize {
		end := offset + seedBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[offset:end]
		if _, err := w.db.NewInsert().Model(&batch).Exec(ctx); err != nil {
			return offset, fmt.Errorf("insert batch at offset %d: %w", offset, err)
		}
	}

	log.Info().Int("rows", len(rows)).Msg("warehouse seeded")
	return len(rows), nil
}
