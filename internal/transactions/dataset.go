package transactions

import (
	"errors"
	"sort"
	"time"
)

// Dataset is an ordered, read-only table of records. It is safe for
// concurrent readers; nothing mutates it after NewDataset returns.
type Dataset struct {
	records []Record
}

// NewDataset validates records and wraps a copy of them. An empty slice is
// reported as ErrDataUnavailable: an empty load is never a queryable dataset.
func NewDataset(records []Record) (*Dataset, error) {
	if len(records) == 0 {
		return nil, NewFieldError(ErrDataUnavailable, "records", "", errors.New("dataset is empty"))
	}

	owned := make([]Record, len(records))
	for i, r := range records {
		if err := r.validate(i); err != nil {
			return nil, err
		}
		r.Date = Day(r.Date)
		owned[i] = r
	}

	return &Dataset{records: owned}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// At returns the record at index i.
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns a copy of all records in load order.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Retailers returns the distinct retailer names, sorted.
func (d *Dataset) Retailers() []string {
	return d.distinct(func(r Record) string { return r.Retailer })
}

// Brands returns the distinct parent brands, sorted.
func (d *Dataset) Brands() []string {
	return d.distinct(func(r Record) string { return r.ParentBrand })
}

// Households returns the distinct household identifiers, sorted.
func (d *Dataset) Households() []string {
	return d.distinct(func(r Record) string { return r.HouseholdID })
}

// DateRange returns the earliest and latest transaction dates.
func (d *Dataset) DateRange() (first, last time.Time) {
	for i, r := range d.records {
		if i == 0 || r.Date.Before(first) {
			first = r.Date
		}
		if i == 0 || r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last
}

func (d *Dataset) distinct(key func(Record) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.records {
		k := key(r)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
