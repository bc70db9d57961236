package analyzer

import (
	"time"

	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// RetailerShare is the focus brand's share of one retailer's unit volume.
type RetailerShare struct {
	Retailer   string
	BrandUnits int64
	TotalUnits int64
	Percentage float64 // BrandUnits / TotalUnits * 100, for display
}

// HouseholdSpend is one household's cumulative spend on one brand.
type HouseholdSpend struct {
	Brand       string
	HouseholdID string
	Total       transactions.Dollars
}

// BrandRate is a brand's total spend divided across the households buying it.
type BrandRate struct {
	Brand      string
	Total      transactions.Dollars
	Households int
	PerHH      float64 // dollars per household
}

// HouseholdFilter selects records for CountHouseholds. Zero-valued fields are
// not applied.
type HouseholdFilter struct {
	Brand    string
	Retailer string
	Start    time.Time // inclusive
	End      time.Time // inclusive
}

// Predicate reports whether a record passes one filter.
type Predicate func(transactions.Record) bool
