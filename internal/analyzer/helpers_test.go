package analyzer

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(retailer, brand, hh string, units int64, dollars, day string) transactions.Record {
	return transactions.Record{
		Retailer:    retailer,
		ParentBrand: brand,
		HouseholdID: hh,
		ItemUnits:   units,
		ItemDollars: dollars,
		Date:        date(day),
	}
}

func newDataset(t *testing.T, records ...transactions.Record) *transactions.Dataset {
	t.Helper()
	ds, err := transactions.NewDataset(records)
	require.NoError(t, err)
	return ds
}

// randomDataset builds a reproducible dataset for property checks.
func randomDataset(t *testing.T, seed int64, n int) *transactions.Dataset {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	retailers := []string{"CVS", "Costco", "Kroger", "Publix", "Target", "Walgreens", "Walmart"}
	brands := []string{"5 Hour Energy", "Monster", "Red Bull", "Rockstar"}
	start := date("2014-01-01")

	records := make([]transactions.Record, n)
	for i := range records {
		records[i] = transactions.Record{
			Retailer:    retailers[rng.Intn(len(retailers))],
			ParentBrand: brands[rng.Intn(len(brands))],
			HouseholdID: fmt.Sprintf("H%03d", rng.Intn(60)),
			ItemUnits:   int64(1 + rng.Intn(12)),
			ItemDollars: fmt.Sprintf("$%d.%02d", rng.Intn(40), rng.Intn(100)),
			Date:        start.AddDate(0, 0, rng.Intn(90)),
		}
	}
	return newDataset(t, records...)
}
