package warehouse

import (
	"testing"
	"time"
)

// 5 years (1827 days) x 5 categories x 5 regions x 10 products.
const wantSeedRows = 1827 * 5 * 5 * 10

func TestGenerateDailySalesShape(t *testing.T) {
	t.Parallel()

	rows := GenerateDailySales(seedRandSource)
	if len(rows) != wantSeedRows {
		t.Fatalf("row count = %d, want %d", len(rows), wantSeedRows)
	}

	first := rows[0]
	if !first.SaleDate.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first sale date = %s", first.SaleDate)
	}
	last := rows[len(rows)-1]
	if !last.SaleDate.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last sale date = %s", last.SaleDate)
	}

	for i, r := range rows[:1000] {
		if r.DailyRevenue < 1.0 {
			t.Fatalf("row %d revenue below floor: %f", i, r.DailyRevenue)
		}
		if r.DailyQuantity < 1 {
			t.Fatalf("row %d quantity below floor: %d", i, r.DailyQuantity)
		}
	}
}

func TestGenerateDailySalesDeterministic(t *testing.T) {
	t.Parallel()

	a := GenerateDailySales(seedRandSource)
	b := GenerateDailySales(seedRandSource)
	if len(a) != len(b) {
		t.Fatalf("row counts differ: %d vs %d", len(a), len(b))
	}

	// Spot check across the dataset instead of comparing every row.
	for _, i := range []int{0, 1, 999, len(a) / 2, len(a) - 1} {
		if a[i] != b[i] {
			t.Fatalf("row %d differs between runs:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestGenerateDailySalesDifferentSeedDiffers(t *testing.T) {
	t.Parallel()

	a := GenerateDailySales(42)
	b := GenerateDailySales(43)

	same := true
	for _, i := range []int{0, 999, len(a) - 1} {
		if a[i].DailyRevenue != b[i].DailyRevenue {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical spot-checked revenues")
	}
}

func TestSeasonalityFactorHolidayPeak(t *testing.T) {
	t.Parallel()

	december := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	july := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	if got := seasonalityFactor(december, "holiday"); got != 1.8 {
		t.Fatalf("holiday december factor = %f", got)
	}
	if got := seasonalityFactor(july, "summer"); got != 1.4 {
		t.Fatalf("summer july factor = %f", got)
	}
	if got := seasonalityFactor(july, "bimodal"); got != 0.8 {
		t.Fatalf("bimodal july factor = %f", got)
	}
	if got := seasonalityFactor(july, "none"); got != 1.0 {
		t.Fatalf("unknown seasonality factor = %f", got)
	}
}

func TestProductWeightStableAndBounded(t *testing.T) {
	t.Parallel()

	w1 := productWeight("Wireless Headphones")
	w2 := productWeight("Wireless Headphones")
	if w1 != w2 {
		t.Fatalf("weight not stable: %f vs %f", w1, w2)
	}
	for _, cat := range seedCategories {
		for _, p := range cat.Products {
			w := productWeight(p)
			if w < 0.5 || w >= 1.5 {
				t.Fatalf("weight out of range for %q: %f", p, w)
			}
		}
	}
}
