package analyzer

import (
	"errors"
	"sort"

	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// TopBuyingBrand returns the brand owning the single largest cumulative
// household spend. This is the maximum over (brand, household) totals, not
// an average per household; see BrandSpendRates for the averaged variant.
func TopBuyingBrand(ds *transactions.Dataset) (string, error) {
	spends, err := HouseholdSpends(ds)
	if err != nil {
		return "", err
	}
	return spends[0].Brand, nil
}

// HouseholdSpends sums parsed item dollars per (brand, household) pair and
// returns the totals largest first, then by brand and household id.
func HouseholdSpends(ds *transactions.Dataset) ([]HouseholdSpend, error) {
	type key struct{ brand, household string }

	totals := make(map[key]transactions.Dollars)
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		amount, err := parseRowDollars(r, i)
		if err != nil {
			return nil, err
		}
		totals[key{r.ParentBrand, r.HouseholdID}] += amount
	}

	spends := make([]HouseholdSpend, 0, len(totals))
	for k, total := range totals {
		spends = append(spends, HouseholdSpend{Brand: k.brand, HouseholdID: k.household, Total: total})
	}

	sort.Slice(spends, func(i, j int) bool {
		a, b := spends[i], spends[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.Brand != b.Brand {
			return a.Brand < b.Brand
		}
		return a.HouseholdID < b.HouseholdID
	})

	return spends, nil
}

// BrandSpendRates returns each brand's total dollars divided by the number of
// distinct households that bought it, highest rate first.
func BrandSpendRates(ds *transactions.Dataset) ([]BrandRate, error) {
	spends, err := HouseholdSpends(ds)
	if err != nil {
		return nil, err
	}

	byBrand := make(map[string]*BrandRate)
	for _, s := range spends {
		br, ok := byBrand[s.Brand]
		if !ok {
			br = &BrandRate{Brand: s.Brand}
			byBrand[s.Brand] = br
		}
		br.Total += s.Total
		br.Households++
	}

	rates := make([]BrandRate, 0, len(byBrand))
	for _, br := range byBrand {
		br.PerHH = br.Total.Float() / float64(br.Households)
		rates = append(rates, *br)
	}

	// Compare total_a/hh_a against total_b/hh_b without float rounding.
	sort.Slice(rates, func(i, j int) bool {
		c := compareProducts(int64(rates[i].Total), int64(rates[j].Households),
			int64(rates[j].Total), int64(rates[i].Households))
		if c != 0 {
			return c > 0
		}
		return rates[i].Brand < rates[j].Brand
	})

	return rates, nil
}

// TopBrandByRate returns the brand with the highest average spend per household.
func TopBrandByRate(ds *transactions.Dataset) (string, error) {
	rates, err := BrandSpendRates(ds)
	if err != nil {
		return "", err
	}
	return rates[0].Brand, nil
}

func parseRowDollars(r transactions.Record, row int) (transactions.Dollars, error) {
	amount, err := transactions.ParseDollars(r.ItemDollars)
	if err != nil {
		var fe *transactions.FieldError
		cause := err
		if errors.As(err, &fe) {
			cause = fe.Err
		}
		return 0, transactions.NewRowError(transactions.ErrDataError, row, "item_dollars", r.ItemDollars, cause)
	}
	return amount, nil
}
