package analyzer

import (
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// CountHouseholds returns the number of distinct households with at least
// one record passing every supplied filter. A filter that matches nothing
// yields 0, not an error.
func CountHouseholds(ds *transactions.Dataset, filter HouseholdFilter) (int, error) {
	preds, err := filter.Predicates()
	if err != nil {
		return 0, err
	}

	households := make(map[string]struct{})
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if matchAll(preds, r) {
			households[r.HouseholdID] = struct{}{}
		}
	}
	return len(households), nil
}

// Validate reports whether the filter can be applied.
func (f HouseholdFilter) Validate() error {
	_, err := f.Predicates()
	return err
}

// Predicates builds one predicate per supplied filter.
func (f HouseholdFilter) Predicates() ([]Predicate, error) {
	if !f.Start.IsZero() && !f.End.IsZero() && transactions.Day(f.Start).After(transactions.Day(f.End)) {
		return nil, transactions.NewFieldError(transactions.ErrInvalidArgument, "start_date",
			f.Start.Format("2006-01-02"),
			fmt.Errorf("start date is after end date %s", f.End.Format("2006-01-02")))
	}

	var preds []Predicate
	if f.Brand != "" {
		brand := f.Brand
		preds = append(preds, func(r transactions.Record) bool { return r.ParentBrand == brand })
	}
	if f.Retailer != "" {
		retailer := f.Retailer
		preds = append(preds, func(r transactions.Record) bool { return r.Retailer == retailer })
	}
	if !f.Start.IsZero() {
		start := transactions.Day(f.Start)
		preds = append(preds, func(r transactions.Record) bool { return !r.Date.Before(start) })
	}
	if !f.End.IsZero() {
		end := transactions.Day(f.End)
		preds = append(preds, func(r transactions.Record) bool { return !r.Date.After(end) })
	}
	return preds, nil
}

func matchAll(preds []Predicate, r transactions.Record) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// ParseHouseholdFilter builds a filter from user-supplied strings. Empty
// strings leave the corresponding filter unset.
func ParseHouseholdFilter(brand, retailer, start, end string, layouts []string) (HouseholdFilter, error) {
	f := HouseholdFilter{Brand: brand, Retailer: retailer}

	parse := func(field, value string) (t time.Time, err error) {
		if value == "" {
			return t, nil
		}
		t, err = transactions.ParseDate(value, layouts)
		if err != nil {
			var fe *transactions.FieldError
			cause := err
			if errors.As(err, &fe) {
				cause = fe.Err
			}
			return t, transactions.NewFieldError(transactions.ErrInvalidArgument, field, value, cause)
		}
		return t, nil
	}

	var err error
	if f.Start, err = parse("start_date", start); err != nil {
		return HouseholdFilter{}, err
	}
	if f.End, err = parse("end_date", end); err != nil {
		return HouseholdFilter{}, err
	}
	return f, nil
}
