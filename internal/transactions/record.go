// Package transactions holds the immutable table of retail purchase records
// that every metric is computed from.
package transactions

import (
	"errors"
	"time"
)

// Record is one purchase event.
type Record struct {
	Retailer    string
	ParentBrand string
	HouseholdID string
	ItemUnits   int64
	ItemDollars string // raw currency string, e.g. "$12.34"
	Date        time.Time
}

// validate checks every field except ItemDollars, which consumers parse with
// ParseDollars when they need it.
func (r Record) validate(row int) error {
	switch {
	case r.Retailer == "":
		return NewRowError(ErrDataError, row, "retailer", "", errors.New("empty value"))
	case r.ParentBrand == "":
		return NewRowError(ErrDataError, row, "parent_brand", "", errors.New("empty value"))
	case r.HouseholdID == "":
		return NewRowError(ErrDataError, row, "household_id", "", errors.New("empty value"))
	case r.ItemUnits < 0:
		return NewRowError(ErrDataError, row, "item_units", "", errors.New("negative units"))
	case r.Date.IsZero():
		return NewRowError(ErrDataError, row, "date", "", errors.New("missing date"))
	}
	return nil
}
