package analyzer

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"

	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// RetailerAffinity returns the retailer where focusBrand accounts for the
// largest share of the retailer's total units. Ties go to the retailer name
// that sorts first.
func RetailerAffinity(ds *transactions.Dataset, focusBrand string) (string, error) {
	shares, err := RetailerShares(ds, focusBrand)
	if err != nil {
		return "", err
	}
	return shares[0].Retailer, nil
}

// RetailerShares returns focusBrand's unit share at every retailer that sold
// it, best share first.
func RetailerShares(ds *transactions.Dataset, focusBrand string) ([]RetailerShare, error) {
	if focusBrand == "" {
		return nil, transactions.NewFieldError(transactions.ErrInvalidArgument, "focus_brand", "",
			errors.New("brand must not be empty"))
	}

	totals := make(map[string]int64)
	brandUnits := make(map[string]int64)
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		totals[r.Retailer] += r.ItemUnits
		if r.ParentBrand == focusBrand {
			brandUnits[r.Retailer] += r.ItemUnits
		}
	}

	if len(brandUnits) == 0 {
		return nil, transactions.NewFieldError(transactions.ErrNotFound, "focus_brand", focusBrand,
			errors.New("no transactions recorded for brand"))
	}

	shares := make([]RetailerShare, 0, len(brandUnits))
	var zeroTotal []string
	for retailer, units := range brandUnits {
		total := totals[retailer]
		if total == 0 {
			zeroTotal = append(zeroTotal, retailer)
			continue
		}
		shares = append(shares, RetailerShare{
			Retailer:   retailer,
			BrandUnits: units,
			TotalUnits: total,
			Percentage: float64(units) / float64(total) * 100,
		})
	}

	if len(shares) == 0 {
		sort.Strings(zeroTotal)
		return nil, transactions.NewFieldError(transactions.ErrDataError, "item_units", zeroTotal[0],
			fmt.Errorf("retailer has zero total units, cannot compute share for %s", focusBrand))
	}

	sort.Slice(shares, func(i, j int) bool {
		if c := compareShare(shares[i], shares[j]); c != 0 {
			return c > 0
		}
		return shares[i].Retailer < shares[j].Retailer
	})

	return shares, nil
}

// compareShare compares a/b share fractions exactly by cross-multiplying.
func compareShare(a, b RetailerShare) int {
	return compareProducts(a.BrandUnits, b.TotalUnits, b.BrandUnits, a.TotalUnits)
}

// compareProducts compares a*b with c*d using 128-bit products, so large
// totals cannot overflow. All arguments must be non-negative.
func compareProducts(a, b, c, d int64) int {
	lhsHi, lhsLo := bits.Mul64(uint64(a), uint64(b))
	rhsHi, rhsLo := bits.Mul64(uint64(c), uint64(d))
	switch {
	case lhsHi > rhsHi, lhsHi == rhsHi && lhsLo > rhsLo:
		return 1
	case lhsHi < rhsHi, lhsHi == rhsHi && lhsLo < rhsLo:
		return -1
	}
	return 0
}
